package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// 默认页脚文本，Content.Footer 为空时使用。
const (
	footerThanks   = "Thanks for reading this week's edition of %s."
	footerFeedback = "If you have feedback, suggestions, or interesting topics, feel free to reach out."
)

// DefaultFooter 返回两行默认页脚。
func DefaultFooter(title string) [2]string {
	return [2]string{fmt.Sprintf(footerThanks, title), footerFeedback}
}

// Build 根据内容与字体度量生成整页的绘制指令序列。
// 任何致命错误都不会返回部分结果；文章配图无法解码时仅记录日志并跳过该图。
func Build(content Content, opts BuildOptions) (*Result, error) {
	if opts.Fonts == nil {
		return nil, fmt.Errorf("%w: 未提供 FontContext", ErrMeasurementUnavailable)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	g := opts.geometry()
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("页面几何参数无效: %w", err)
	}
	logo, err := decodeImage(content.Logo)
	if err != nil {
		return nil, fmt.Errorf("logo: %w", err)
	}

	b := &builder{
		geometry: g,
		palette:  opts.palette(),
		fonts:    opts.Fonts,
		logger:   opts.logger(),
	}
	steps := []func() error{
		b.background,
		func() error { return b.title(content.Title) },
		func() error { b.logo(content.Logo, logo, g.LogoTop); return nil },
		b.newsBox,
		func() error { return b.columns(content) },
		func() error { b.footer(content); return nil },
		func() error {
			height := g.LogoWidth / logo.aspect()
			b.logo(content.Logo, logo, g.FooterLines[1]-height/2)
			return nil
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	b.logger.Debug("排版完成", "title", content.Title, "instructions", len(b.instructions))
	return &Result{
		Width:  g.PageWidth,
		Height: g.PageHeight,
		Meta: DocumentMeta{
			Title:   content.Title,
			Subject: "newsletter",
			Creator: "newsletter",
		},
		Instructions: b.instructions,
	}, nil
}

type builder struct {
	geometry     Geometry
	palette      Palette
	fonts        FontContext
	logger       *log.Logger
	instructions []Instruction
}

// column 是单栏的排版上下文：左边界固定，cursorY 随内容下移。
type column struct {
	x       float64
	cursorY float64
}

func (b *builder) setFont(font Font) error {
	if err := b.fonts.SetFont(font); err != nil {
		return fmt.Errorf("%w: %s %s %gpt: %v", ErrMeasurementUnavailable, font.Family, font.Style, font.Size, err)
	}
	return nil
}

func (b *builder) fillRect(x, y, w, h float64, c Color) {
	b.instructions = append(b.instructions, Instruction{
		Kind: KindRect,
		Rect: &FillRect{X: x, Y: y, Width: w, Height: h, Color: c},
	})
}

func (b *builder) text(content string, x, y float64, font Font, c Color, align string) {
	b.instructions = append(b.instructions, Instruction{
		Kind: KindText,
		Text: &PlaceText{Content: content, X: x, Y: y, Font: font, Color: c, Align: align},
	})
}

func (b *builder) image(src ImageSource, format string, x, y, w, h float64) {
	b.instructions = append(b.instructions, Instruction{
		Kind: KindImage,
		Image: &PlaceImage{
			Name:   src.Name,
			Data:   src.Data,
			Format: format,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		},
	})
}

func (b *builder) background() error {
	g := b.geometry
	b.fillRect(0, 0, g.PageWidth, g.PageHeight, b.palette.Background)
	return nil
}

// title 逐词绘制标题，最后一个词使用强调色；每个词之后按 "词+空格" 的宽度推进。
func (b *builder) title(title string) error {
	if err := b.setFont(TitleFont); err != nil {
		return err
	}
	parts := strings.Split(title, " ")
	x := b.geometry.TitleX
	for i, part := range parts {
		c := b.palette.Text
		if i == len(parts)-1 {
			c = b.palette.Accent
		}
		if part != "" {
			b.text(part, x, b.geometry.TitleY, TitleFont, c, "")
		}
		x += b.fonts.TextWidth(part + " ")
	}
	return nil
}

// logo 以固定宽度绘制 logo，高度按自然宽高比计算，靠右放置。
func (b *builder) logo(src ImageSource, img decodedImage, y float64) {
	g := b.geometry
	w := g.LogoWidth
	h := w / img.aspect()
	b.image(src, img.format, g.PageWidth-w-g.LogoInset, y, w, h)
}

func (b *builder) newsBox() error {
	g := b.geometry
	b.fillRect(g.Margin.Left, g.NewsBoxY, g.NewsBoxWidth(), g.NewsBoxHeight, b.palette.NewsBox)
	return nil
}

// columns 排版两篇文章与办公室新闻。
// 文章一的配图画在标题之上，文章二的配图画在正文之后，这一不对称是既定版式。
func (b *builder) columns(content Content) error {
	g := b.geometry

	left := &column{x: g.LeftColumn, cursorY: g.ColumnTop}
	if img := content.Article1.Image; img != nil {
		b.articleImage(left, *img, g.Article1Image)
	}
	if err := b.block(left, content.Article1.Heading, content.Article1.Body); err != nil {
		return err
	}

	right := &column{x: g.RightColumn, cursorY: g.ColumnTop}
	if err := b.block(right, content.Article2.Heading, content.Article2.Body); err != nil {
		return err
	}
	if img := content.Article2.Image; img != nil {
		b.articleImage(right, *img, g.Article2Image)
	}

	col, y := PlaceOffice(right.cursorY+g.OfficeGap, g)
	b.logger.Debug("办公室新闻落点", "column", col, "y", y, "rightCursor", right.cursorY)
	office := &column{x: g.ColumnX(col), cursorY: y}
	return b.block(office, content.Office.Heading, content.Office.Body)
}

// block 绘制加粗标题与折行后的正文。
func (b *builder) block(col *column, heading, body string) error {
	g := b.geometry
	if err := b.setFont(HeadingFont); err != nil {
		return err
	}
	b.text(heading, col.x, col.cursorY, HeadingFont, b.palette.Text, "")
	col.cursorY += g.HeadingGap

	if err := b.setFont(BodyFont); err != nil {
		return err
	}
	for _, line := range Wrap(body, g.ColumnWidth, b.fonts.TextWidth) {
		b.text(line, col.x, col.cursorY, BodyFont, b.palette.Text, "")
		col.cursorY += g.LineHeight
	}
	return nil
}

// articleImage 绘制文章配图；解码失败时记录日志并跳过，光标不再推进 Advance。
func (b *builder) articleImage(col *column, src ImageSource, slot ImageSlot) {
	col.cursorY += slot.Before
	img, err := decodeImage(src)
	if err != nil {
		b.logger.Warn("跳过无法解码的文章配图", "image", src.Name, "err", err)
		return
	}
	b.image(src, img.format, col.x, col.cursorY, slot.Width, slot.Height)
	col.cursorY += slot.Advance
}

func (b *builder) footer(content Content) {
	g := b.geometry
	lines := content.Footer
	defaults := DefaultFooter(content.Title)
	for i := range lines {
		if lines[i] == "" {
			lines[i] = defaults[i]
		}
		b.text(lines[i], g.FooterX, g.FooterLines[i], FooterFont, b.palette.Footer, "center")
	}
}
