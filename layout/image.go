package layout

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodedImage 记录图片的格式与像素尺寸。
type decodedImage struct {
	format string
	width  int
	height int
}

// aspect 返回宽高比。
func (d decodedImage) aspect() float64 {
	return float64(d.width) / float64(d.height)
}

// decodeImage 只读取图片头部以获得格式与自然尺寸。
func decodeImage(src ImageSource) (decodedImage, error) {
	if len(src.Data) == 0 {
		return decodedImage{}, fmt.Errorf("%w: %s 为空", ErrImageDecode, src.Name)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(src.Data))
	if err != nil {
		return decodedImage{}, fmt.Errorf("%w: %s: %v", ErrImageDecode, src.Name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return decodedImage{}, fmt.Errorf("%w: %s 尺寸无效 %dx%d", ErrImageDecode, src.Name, cfg.Width, cfg.Height)
	}
	return decodedImage{format: format, width: cfg.Width, height: cfg.Height}, nil
}
