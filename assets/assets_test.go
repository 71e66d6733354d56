package assets

import (
	"bytes"
	"image/png"
	"testing"
)

func TestLogoDecodes(t *testing.T) {
	logo := Logo()
	cfg, err := png.DecodeConfig(bytes.NewReader(logo.Data))
	if err != nil {
		t.Fatalf("内嵌 logo 无法解码: %v", err)
	}
	if cfg.Width != 240 || cfg.Height != 60 {
		t.Fatalf("logo 尺寸错误: %dx%d", cfg.Width, cfg.Height)
	}
}
