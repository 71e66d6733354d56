// Package fpdfrenderer 使用 PDF 核心字体（Helvetica 等）度量与绘制，
// 文本宽度与浏览器端 jsPDF 的 getTextWidth 一致。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/newsletter/layout"
	"github.com/ByLCY/newsletter/renderer"
)

// coreFamilies 是 fpdf 内置的核心字体族。
var coreFamilies = map[string]string{
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"times":     "Times",
	"courier":   "Courier",
}

// Renderer 以 fpdf 实现 layout.FontContext 与 renderer.Renderer。
type Renderer struct {
	measure *fpdf.Fpdf
	tr      func(string) string
}

var (
	_ renderer.Renderer  = (*Renderer)(nil)
	_ renderer.Backend   = (*Renderer)(nil)
	_ layout.FontContext = (*Renderer)(nil)
)

// NewRenderer 创建一个独立的度量文档；渲染时另建输出文档。
func NewRenderer() *Renderer {
	m := fpdf.New("P", "mm", "A4", "")
	return &Renderer{
		measure: m,
		tr:      m.UnicodeTranslatorFromDescriptor(""),
	}
}

// SetFont 实现 layout.FontContext。
func (r *Renderer) SetFont(font layout.Font) error {
	family, style, err := coreFont(font)
	if err != nil {
		return err
	}
	r.measure.SetFont(family, style, font.Size)
	if r.measure.Err() {
		err := r.measure.Error()
		r.measure.ClearError()
		return err
	}
	return nil
}

// TextWidth 实现 layout.FontContext，返回 mm。
func (r *Renderer) TextWidth(s string) float64 {
	return r.measure.GetStringWidth(r.tr(s))
}

// Render 将指令序列写成单页 PDF。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: result.Width, Ht: result.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(result.Meta.Title, true)
	doc.SetSubject(result.Meta.Subject, true)
	doc.SetCreator(result.Meta.Creator, true)
	doc.AddPage()

	for i, ins := range result.Instructions {
		var err error
		switch ins.Kind {
		case layout.KindRect:
			rc := ins.Rect
			doc.SetFillColor(rc.Color.R, rc.Color.G, rc.Color.B)
			doc.Rect(rc.X, rc.Y, rc.Width, rc.Height, "F")
		case layout.KindText:
			err = r.drawText(doc, ins.Text)
		case layout.KindImage:
			err = r.drawImage(doc, ins.Image, i)
		default:
			err = fmt.Errorf("未知指令类型 %q", ins.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("第 %d 条指令: %w", i, err)
		}
		if doc.Err() {
			return nil, fmt.Errorf("第 %d 条指令: %w", i, doc.Error())
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawText(doc *fpdf.Fpdf, tx *layout.PlaceText) error {
	family, style, err := coreFont(tx.Font)
	if err != nil {
		return err
	}
	doc.SetFont(family, style, tx.Font.Size)
	doc.SetTextColor(tx.Color.R, tx.Color.G, tx.Color.B)
	s := r.tr(tx.Content)
	x := tx.X
	if strings.EqualFold(tx.Align, "center") {
		x -= doc.GetStringWidth(s) / 2
	}
	doc.Text(x, tx.Y, s)
	return nil
}

func (r *Renderer) drawImage(doc *fpdf.Fpdf, img *layout.PlaceImage, index int) error {
	data, imageType, err := fpdfImage(img)
	if err != nil {
		return err
	}
	// 同名图片在 fpdf 中只注册一次，名称附加序号避免不同字节互相覆盖
	name := fmt.Sprintf("%d-%s", index, img.Name)
	opts := fpdf.ImageOptions{ImageType: imageType}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	doc.ImageOptions(name, img.X, img.Y, img.Width, img.Height, false, opts, 0, "")
	return nil
}

// fpdfImage 返回 fpdf 可直接读取的字节与类型；其它格式转码为 PNG。
func fpdfImage(img *layout.PlaceImage) ([]byte, string, error) {
	switch strings.ToLower(img.Format) {
	case "png":
		return img.Data, "PNG", nil
	case "jpeg", "jpg":
		return img.Data, "JPG", nil
	case "gif":
		return img.Data, "GIF", nil
	}
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, "", fmt.Errorf("解码图片 %s 失败: %w", img.Name, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, "", fmt.Errorf("转码图片 %s 失败: %w", img.Name, err)
	}
	return buf.Bytes(), "PNG", nil
}

func coreFont(font layout.Font) (string, string, error) {
	family, ok := coreFamilies[strings.ToLower(font.Family)]
	if !ok {
		return "", "", fmt.Errorf("fpdf 不支持字体族 %q", font.Family)
	}
	if font.Size <= 0 {
		return "", "", fmt.Errorf("字号无效: %g", font.Size)
	}
	s := strings.ToLower(font.Style)
	style := ""
	if strings.Contains(s, "bold") {
		style += "B"
	}
	if strings.Contains(s, "italic") {
		style += "I"
	}
	return family, style, nil
}
