// Package config 读取 TOML 配置文件，未出现的键保留默认值。
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/newsletter/typeset"
)

// Config 是完整配置。
type Config struct {
	Server  Server  `toml:"server"`
	Render  Render  `toml:"render"`
	Typeset Typeset `toml:"typeset"`
	Cache   Cache   `toml:"cache"`
}

// Server 配置 HTTP 服务。
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	MaxUploadMB     int64    `toml:"max_upload_mb"`
}

// Render 配置本地排版。
type Render struct {
	Backend string            `toml:"backend"`
	Format  string            `toml:"format"`
	DPMM    float64           `toml:"dpmm"`
	Logo    string            `toml:"logo"`  // logo 文件路径，空则使用内嵌 logo
	Fonts   map[string]string `toml:"fonts"` // "family|style" = TTF 路径
}

// Typeset 配置远程 LaTeX 编译。
type Typeset struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
	Attempts int      `toml:"attempts"`
	Delay    Duration `toml:"delay"`
}

// Cache 配置编译结果缓存。Kind 取 none、file 或 redis。
type Cache struct {
	Kind  string   `toml:"kind"`
	Dir   string   `toml:"dir"`
	TTL   Duration `toml:"ttl"`
	Redis Redis    `toml:"redis"`
}

// Redis 连接参数。
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Duration 支持以 "30s"、"1m" 形式书写时长。
type Duration struct {
	time.Duration
}

// UnmarshalText 实现 encoding.TextUnmarshaler。
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("无效时长 %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText 实现 encoding.TextMarshaler。
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{30 * time.Second},
			WriteTimeout:    Duration{90 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			MaxUploadMB:     20,
		},
		Render: Render{Backend: "canvas", Format: "pdf", DPMM: 6},
		Typeset: Typeset{
			Endpoint: typeset.DefaultEndpoint,
			Timeout:  Duration{60 * time.Second},
			Attempts: 3,
			Delay:    Duration{time.Second},
		},
		Cache: Cache{Kind: "none", TTL: Duration{24 * time.Hour}},
	}
}

// Load 读取配置文件；path 为空时返回默认配置。未知键视为错误。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("配置 %s 包含未知键: %v", path, undecoded)
	}
	return cfg, cfg.Validate()
}

// Validate 检查枚举值。
func (c Config) Validate() error {
	switch c.Cache.Kind {
	case "none", "file", "redis":
	default:
		return fmt.Errorf("cache.kind 必须为 none、file 或 redis，实际 %q", c.Cache.Kind)
	}
	if c.Cache.Kind == "file" && c.Cache.Dir == "" {
		return fmt.Errorf("cache.kind = \"file\" 时必须设置 cache.dir")
	}
	if c.Cache.Kind == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.kind = \"redis\" 时必须设置 cache.redis.addr")
	}
	return nil
}
