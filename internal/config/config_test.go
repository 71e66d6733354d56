package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "newsletter.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Typeset.Attempts != 3 || cfg.Cache.Kind != "none" {
		t.Fatalf("默认配置错误: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = "127.0.0.1:9000"

[render]
backend = "fpdf"

[render.fonts]
"helvetica|bold" = "/fonts/Bold.ttf"

[typeset]
delay = "250ms"

[cache]
kind = "redis"
ttl = "1h"

[cache.redis]
addr = "localhost:6379"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.MaxUploadMB != 20 {
		t.Fatalf("server 配置错误: %+v", cfg.Server)
	}
	if cfg.Render.Backend != "fpdf" || cfg.Render.Format != "pdf" || cfg.Render.Fonts["helvetica|bold"] != "/fonts/Bold.ttf" {
		t.Fatalf("render 配置错误: %+v", cfg.Render)
	}
	if cfg.Typeset.Delay.Duration != 250*time.Millisecond || cfg.Typeset.Attempts != 3 {
		t.Fatalf("typeset 配置错误: %+v", cfg.Typeset)
	}
	if cfg.Cache.TTL.Duration != time.Hour || cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Fatalf("cache 配置错误: %+v", cfg.Cache)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "[server]\nport = 1\n",
		"bad duration": "[typeset]\ndelay = \"soon\"\n",
		"bad cache":    "[cache]\nkind = \"memcached\"\n",
		"file no dir":  "[cache]\nkind = \"file\"\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: 期望报错", name)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil || !strings.Contains(err.Error(), "读取配置") {
		t.Fatalf("文件不存在应报错，实际 %v", err)
	}
}
