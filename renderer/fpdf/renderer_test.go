package fpdfrenderer

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/newsletter/layout"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("编码测试图片失败: %v", err)
	}
	return buf.Bytes()
}

// TestHelveticaWidth 使用 Helvetica AFM 宽度手算："hello" = 556+556+222+222+556 = 2112/1000 em。
func TestHelveticaWidth(t *testing.T) {
	r := NewRenderer()
	if err := r.SetFont(layout.BodyFont); err != nil {
		t.Fatalf("SetFont 失败: %v", err)
	}
	want := 2112.0 / 1000 * 10 * layout.PtToMm
	if got := r.TextWidth("hello"); math.Abs(got-want) > 1e-3 {
		t.Fatalf("hello 宽度期望 %g mm，实际 %g", want, got)
	}
}

func TestBoldIsWider(t *testing.T) {
	r := NewRenderer()
	_ = r.SetFont(layout.Font{Family: "helvetica", Size: 16})
	regular := r.TextWidth("Office News")
	_ = r.SetFont(layout.HeadingFont)
	if bold := r.TextWidth("Office News"); bold <= regular {
		t.Fatalf("粗体应更宽: regular=%g bold=%g", regular, bold)
	}
}

func TestSetFontRejectsUnknownFamily(t *testing.T) {
	r := NewRenderer()
	if err := r.SetFont(layout.Font{Family: "Inter", Size: 10}); err == nil {
		t.Fatalf("非核心字体应返回错误")
	}
	// 失败后仍可继续使用
	if err := r.SetFont(layout.BodyFont); err != nil {
		t.Fatalf("切回核心字体失败: %v", err)
	}
}

func TestRenderPDF(t *testing.T) {
	r := NewRenderer()
	body := strings.Repeat("Välkommen till kontoret i Västerås. ", 10)
	content := layout.Content{
		Title:    "Bästerås Weekly",
		Article1: layout.Article{Heading: "News1", Body: body},
		Article2: layout.Article{Heading: "News2", Body: body, Image: &layout.ImageSource{Name: "b.png", Data: pngBytes(t, 70, 45)}},
		Office:   layout.Office{Heading: "Office News", Body: body},
		Logo:     layout.ImageSource{Name: "logo.png", Data: pngBytes(t, 240, 60)},
	}
	res, err := layout.Build(content, layout.BuildOptions{Fonts: r, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestCoreFontStyle(t *testing.T) {
	family, style, err := coreFont(layout.Font{Family: "Arial", Style: "bold", Size: 10})
	if err != nil || family != "Helvetica" || style != "B" {
		t.Fatalf("coreFont 映射错误: %q %q %v", family, style, err)
	}
}
