package renderer

import "github.com/ByLCY/newsletter/layout"

// Renderer 将绘制指令序列输出为最终文件，例如 PDF、SVG 或 PNG。
// Render 返回生成的二进制数据以及可能的错误；出错时不返回部分数据。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 同时提供字体度量与渲染。后端实例有状态，每次生成都应新建。
type Backend interface {
	Renderer
	layout.FontContext
}

// 支持的输出格式。
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ContentType 返回输出格式对应的 MIME 类型。
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "application/pdf"
	}
}
