// Package assets 内嵌新闻稿默认使用的 logo。
package assets

import (
	_ "embed"

	"github.com/ByLCY/newsletter/layout"
)

//go:embed logo.png
var logoPNG []byte

// Logo 返回内嵌的默认 logo（240x60 PNG）。
func Logo() layout.ImageSource {
	return layout.ImageSource{Name: "logo.png", Data: logoPNG}
}
