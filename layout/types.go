package layout

// 该文件定义布局结果与绘制指令，供布局计算、渲染与调试 JSON 共用。

// Result 保存单页布局后的绘制指令序列。
type Result struct {
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	Meta         DocumentMeta  `json:"meta"`
	Instructions []Instruction `json:"instructions"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}

// Kind 区分绘制指令的类型。
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindRect  Kind = "rect"
)

// Instruction 是一条有序的绘制指令，三个指针字段中恰有一个非空。
// 序列顺序即绘制顺序：背景、标题、栏目内容、页脚、最后是覆盖在上层的 logo。
type Instruction struct {
	Kind  Kind        `json:"kind"`
	Text  *PlaceText  `json:"text,omitempty"`
	Image *PlaceImage `json:"image,omitempty"`
	Rect  *FillRect   `json:"rect,omitempty"`
}

// PlaceText 在基线 (X, Y) 处绘制一段文本（单位：mm）。
type PlaceText struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Font    Font    `json:"font"`
	Color   Color   `json:"color"`
	Align   string  `json:"align,omitempty"` // left（默认）/center：center 时 X 为水平中心
}

// PlaceImage 将图片缩放到 Width×Height 后放在左上角 (X, Y)。
type PlaceImage struct {
	Name   string  `json:"name"`
	Data   []byte  `json:"-"`
	Format string  `json:"format"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FillRect 以纯色填充矩形，无描边。
type FillRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  Color   `json:"color"`
}

// Font 描述字体族、字重与字号（pt）。
type Font struct {
	Family string  `json:"family"`
	Style  string  `json:"style"` // "" 或 "bold"
	Size   float64 `json:"size"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Palette 是版面使用的配色。
type Palette struct {
	Background Color `json:"background"`
	NewsBox    Color `json:"newsBox"`
	Accent     Color `json:"accent"`
	Text       Color `json:"text"`
	Footer     Color `json:"footer"`
}

// DefaultPalette 返回与 LaTeX 模板一致的配色。
func DefaultPalette() Palette {
	return Palette{
		Background: Color{R: 249, G: 247, B: 243},
		NewsBox:    Color{R: 235, G: 230, B: 223},
		Accent:     Color{R: 255, G: 166, B: 0},
		Text:       Color{R: 25, G: 25, B: 25},
		Footer:     Color{R: 100, G: 100, B: 100},
	}
}

// ImageSource 是尚未解码的图片字节。
type ImageSource struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// Article 是一篇带标题、正文与可选配图的新闻。
type Article struct {
	Heading string       `json:"heading"`
	Body    string       `json:"body"`
	Image   *ImageSource `json:"image,omitempty"`
}

// Office 是办公室新闻块，没有配图。
type Office struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Content 是一次排版请求的全部输入，调用方每次构造新的值。
type Content struct {
	Title    string      `json:"title"`
	Article1 Article     `json:"article1"`
	Article2 Article     `json:"article2"`
	Office   Office      `json:"office"`
	Logo     ImageSource `json:"logo"`
	Footer   [2]string   `json:"footer"`
}

// Validate 检查排版前置条件：正文不能为空。
func (c Content) Validate() error {
	switch {
	case c.Article1.Body == "":
		return emptyField("article1.body")
	case c.Article2.Body == "":
		return emptyField("article2.body")
	case c.Office.Body == "":
		return emptyField("office.body")
	}
	return nil
}

// Column 标识左右两栏。
type Column int

const (
	ColumnLeft Column = iota
	ColumnRight
)

func (c Column) String() string {
	if c == ColumnLeft {
		return "left"
	}
	return "right"
}
