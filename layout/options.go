package layout

import "github.com/charmbracelet/log"

// BuildOptions 配置布局阶段所需的依赖，例如字体度量后端。
type BuildOptions struct {
	Fonts    FontContext
	Geometry *Geometry // 为空时使用 DefaultGeometry
	Palette  *Palette  // 为空时使用 DefaultPalette
	Logger   *log.Logger
}

// FontContext 提供“设置当前字体”与“按当前字体测量文本宽度”的能力。
// 实现通常有状态，每次排版调用都应使用独立的实例。
type FontContext interface {
	// SetFont 切换当前字体；返回错误表示该字体无法度量。
	SetFont(font Font) error
	// TextWidth 返回当前字体下 s 的宽度（mm）。
	TextWidth(s string) float64
}

func (o BuildOptions) geometry() Geometry {
	if o.Geometry != nil {
		return *o.Geometry
	}
	return DefaultGeometry()
}

func (o BuildOptions) palette() Palette {
	if o.Palette != nil {
		return *o.Palette
	}
	return DefaultPalette()
}

func (o BuildOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}
