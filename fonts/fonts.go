package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体使用 Go 字体（无衬线，度量稳定），按族名别名映射。
var aliases = map[string]bool{
	"":           true,
	"helvetica":  true,
	"arial":      true,
	"sans":       true,
	"sans-serif": true,
	"go":         true,
}

// Load 返回内置字体的 TTF 字节。family 不区分大小写，style 取 ""/"bold"/"italic"/"bolditalic"。
func Load(family, style string) ([]byte, error) {
	if !aliases[strings.ToLower(strings.TrimSpace(family))] {
		return nil, fmt.Errorf("未内置字体族 %q", family)
	}
	s := strings.ToLower(style)
	bold := strings.Contains(s, "bold") || s == "b" || s == "bi"
	italic := strings.Contains(s, "italic") || s == "i" || s == "bi"
	switch {
	case bold && italic:
		return gobolditalic.TTF, nil
	case bold:
		return gobold.TTF, nil
	case italic:
		return goitalic.TTF, nil
	default:
		return goregular.TTF, nil
	}
}
