package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrMeasurementUnavailable 表示缺少可用的字体度量能力，排版无法继续。
	ErrMeasurementUnavailable = errors.New("layout: 字体度量不可用")
	// ErrImageDecode 表示图片字节无法解码。
	ErrImageDecode = errors.New("layout: 图片解码失败")
	// ErrEmptyContent 表示必填文本为空，调用方应在排版前完成校验。
	ErrEmptyContent = errors.New("layout: 必填内容为空")
)

func emptyField(name string) error {
	return fmt.Errorf("%w: %s", ErrEmptyContent, name)
}
