package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/newsletter/fonts"
	"github.com/ByLCY/newsletter/layout"
	"github.com/ByLCY/newsletter/renderer"
)

// defaultDPMM 是 PNG 输出的默认分辨率（约 150 DPI）。
const defaultDPMM = 6.0

// Renderer draws layout results via github.com/tdewolff/canvas.
// It also measures text for the layout engine, so a Renderer must not be
// shared between concurrent generations.
type Renderer struct {
	format string
	dpmm   float64

	// injected fonts, keyed by "family|style"
	fontBlobs map[string][]byte

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry

	current *canvas.FontFace
}

var (
	_ renderer.Renderer  = (*Renderer)(nil)
	_ renderer.Backend   = (*Renderer)(nil)
	_ layout.FontContext = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	Format string            // pdf (default), svg or png
	DPMM   float64           // PNG resolution in dots per millimetre
	Fonts  map[string][]byte // TTF/OTF overrides keyed by "family|style", e.g. "helvetica|bold"
}

// NewRenderer creates a canvas-based renderer producing PDF.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected fonts and output format.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		format:       strings.ToLower(opts.Format),
		dpmm:         opts.DPMM,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.format == "" {
		r.format = renderer.FormatPDF
	}
	if r.dpmm <= 0 {
		r.dpmm = defaultDPMM
	}
	for key, blob := range opts.Fonts {
		if len(blob) > 0 {
			r.fontBlobs[strings.ToLower(key)] = blob
		}
	}
	return r
}

// SetFont 实现 layout.FontContext：切换当前字体面。字号为 pt。
func (r *Renderer) SetFont(font layout.Font) error {
	face, err := r.fontFace(font, layout.Color{})
	if err != nil {
		return err
	}
	r.current = face
	return nil
}

// TextWidth 实现 layout.FontContext：返回当前字体面下的文本宽度（mm）。
func (r *Renderer) TextWidth(s string) float64 {
	if r.current == nil {
		return 0
	}
	return r.current.TextWidth(s)
}

// Render renders the result into PDF, SVG or PNG bytes.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Width <= 0 || result.Height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", result.Width, result.Height)
	}

	c := canvas.New(result.Width, result.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	if err := r.drawInstructions(ctx, result.Instructions); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch r.format {
	case renderer.FormatPDF:
		writer := pdf.New(&buf, result.Width, result.Height, nil)
		writer.SetInfo(result.Meta.Title, result.Meta.Subject, "", "", result.Meta.Creator)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case renderer.FormatSVG:
		writer := svg.New(&buf, result.Width, result.Height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case renderer.FormatPNG:
		img := rasterizer.Draw(c, canvas.DPMM(r.dpmm), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.format)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawInstructions(ctx *canvas.Context, instructions []layout.Instruction) error {
	for i, ins := range instructions {
		var err error
		switch ins.Kind {
		case layout.KindRect:
			r.drawRect(ctx, ins.Rect)
		case layout.KindText:
			err = r.drawText(ctx, ins.Text)
		case layout.KindImage:
			err = r.drawImage(ctx, ins.Image)
		default:
			err = fmt.Errorf("未知指令类型 %q", ins.Kind)
		}
		if err != nil {
			return fmt.Errorf("第 %d 条指令: %w", i, err)
		}
	}
	return nil
}

// drawRect 绘制无描边的填充矩形
func (r *Renderer) drawRect(ctx *canvas.Context, rc *layout.FillRect) {
	if rc == nil {
		return
	}
	ctx.SetFillColor(colorFromLayout(rc.Color))
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
}

func (r *Renderer) drawText(ctx *canvas.Context, tx *layout.PlaceText) error {
	if tx == nil || tx.Content == "" {
		return nil
	}
	face, err := r.fontFace(tx.Font, tx.Color)
	if err != nil {
		return err
	}
	align := canvas.Left
	if strings.EqualFold(tx.Align, "center") {
		align = canvas.Center
	}
	// Y 即基线位置
	ctx.DrawText(tx.X, tx.Y, canvas.NewTextLine(face, tx.Content, align))
	return nil
}

// drawImage 解码图片并按目标宽高重采样，使非等比的目标框也能被填满。
func (r *Renderer) drawImage(ctx *canvas.Context, img *layout.PlaceImage) error {
	if img == nil {
		return nil
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("解码图片 %s 失败: %w", img.Name, err)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("图片 %s 尺寸无效: %gx%g", img.Name, img.Width, img.Height)
	}

	pxW := src.Bounds().Dx()
	if pxW <= 0 {
		return fmt.Errorf("图片 %s 宽度为 0", img.Name)
	}
	pxH := int(float64(pxW)*img.Height/img.Width + 0.5)
	if pxH < 1 {
		pxH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	dpmm := float64(pxW) / img.Width
	ctx.DrawImage(img.X, img.Y, dst, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) fontFace(font layout.Font, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	if font.Size <= 0 {
		return nil, fmt.Errorf("字号无效: %g", font.Size)
	}
	return family.Face(font.Size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	data, err := r.loadFontBytes(font)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	style := parseFontStyle(font.Style)
	family := canvas.NewFontFamily(key)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", key, err)
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontBytes(font layout.Font) ([]byte, error) {
	if blob, ok := r.fontBlobs[fontCacheKey(font)]; ok {
		return blob, nil
	}
	return fonts.Load(font.Family, font.Style)
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	if strings.Contains(s, "bold") {
		result = canvas.FontBold
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.Font) string {
	return strings.ToLower(fmt.Sprintf("%s|%s", font.Family, font.Style))
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
