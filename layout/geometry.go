package layout

import "fmt"

// Geometry 描述 A4 竖版新闻页的全部固定尺寸，单位均为 mm。
type Geometry struct {
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	Margin     Margin  `json:"margin"` // 新闻框外侧边距

	NewsBoxY      float64 `json:"newsBoxY"`
	NewsBoxHeight float64 `json:"newsBoxHeight"`

	LeftColumn  float64 `json:"leftColumn"`
	RightColumn float64 `json:"rightColumn"`
	ColumnWidth float64 `json:"columnWidth"`
	ColumnTop   float64 `json:"columnTop"`

	LineHeight float64 `json:"lineHeight"`
	HeadingGap float64 `json:"headingGap"`

	TitleX float64 `json:"titleX"`
	TitleY float64 `json:"titleY"`

	LogoWidth float64 `json:"logoWidth"`
	LogoInset float64 `json:"logoInset"` // 距右边缘
	LogoTop   float64 `json:"logoTop"`

	Article1Image ImageSlot `json:"article1Image"`
	Article2Image ImageSlot `json:"article2Image"`

	OfficeGap         float64 `json:"officeGap"`
	OverflowThreshold float64 `json:"overflowThreshold"`
	FallbackY         float64 `json:"fallbackY"`

	FooterX     float64    `json:"footerX"`
	FooterLines [2]float64 `json:"footerLines"` // 两行页脚的基线
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// ImageSlot 描述文章配图的固定尺寸与光标推进量。
type ImageSlot struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Before  float64 `json:"before"`  // 绘制前光标先下移的距离
	Advance float64 `json:"advance"` // 绘制后光标下移的距离（含间隙）
}

// 字号（pt）。
const (
	TitleSize   = 36
	HeadingSize = 16
	BodySize    = 10
	FooterSize  = 8
)

// DefaultFamily 是版面使用的唯一字体族。
const DefaultFamily = "helvetica"

// 版面使用的字体。
var (
	TitleFont   = Font{Family: DefaultFamily, Style: "bold", Size: TitleSize}
	HeadingFont = Font{Family: DefaultFamily, Style: "bold", Size: HeadingSize}
	BodyFont    = Font{Family: DefaultFamily, Size: BodySize}
	FooterFont  = Font{Family: DefaultFamily, Size: FooterSize}
)

// DefaultGeometry 返回 A4 竖版的固定几何参数。
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:  210,
		PageHeight: 297,
		Margin:     Margin{Top: 35, Right: 10, Bottom: 22, Left: 10},

		NewsBoxY:      35,
		NewsBoxHeight: 240,

		LeftColumn:  20,
		RightColumn: 110,
		ColumnWidth: 85,
		ColumnTop:   50,

		LineHeight: 5,
		HeadingGap: 8,

		TitleX: 20,
		TitleY: 25,

		LogoWidth: 60,
		LogoInset: 15,
		LogoTop:   10,

		Article1Image: ImageSlot{Width: 60, Height: 40, Advance: 45},
		Article2Image: ImageSlot{Width: 70, Height: 45, Before: 3, Advance: 50},

		OfficeGap:         10,
		OverflowThreshold: 240,
		FallbackY:         180,

		FooterX:     105,
		FooterLines: [2]float64{285, 290},
	}
}

// NewsBoxWidth 是新闻框宽度：页面宽度减去左右边距。
func (g Geometry) NewsBoxWidth() float64 {
	return g.PageWidth - g.Margin.Left - g.Margin.Right
}

// ColumnX 返回指定栏的左边界。
func (g Geometry) ColumnX(c Column) float64 {
	if c == ColumnLeft {
		return g.LeftColumn
	}
	return g.RightColumn
}

// Validate 检查栏宽不超过可用宽度的一半，且两栏互不重叠。
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("页面尺寸无效: %gx%g", g.PageWidth, g.PageHeight)
	}
	if g.ColumnWidth <= 0 {
		return fmt.Errorf("栏宽必须为正数: %g", g.ColumnWidth)
	}
	if limit := g.NewsBoxWidth() / 2; g.ColumnWidth > limit {
		return fmt.Errorf("栏宽 %g 超过可用宽度的一半 %g", g.ColumnWidth, limit)
	}
	if g.LeftColumn+g.ColumnWidth > g.RightColumn {
		return fmt.Errorf("左右两栏重叠: 左栏 [%g, %g] 右栏起点 %g", g.LeftColumn, g.LeftColumn+g.ColumnWidth, g.RightColumn)
	}
	// 行高不足正文字号时相邻行会重叠
	if floor := ToMM(BodySize); g.LineHeight < floor {
		return fmt.Errorf("行高 %gmm 小于正文字号 %gmm", g.LineHeight, floor)
	}
	return nil
}
