// Package cli 实现 newsletter 命令行：render 本地排版、typeset 远程编译、serve 启动 HTTP 服务。
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/newsletter/buildinfo"
	"github.com/ByLCY/newsletter/cache"
	"github.com/ByLCY/newsletter/internal/config"
	"github.com/ByLCY/newsletter/layout"
	"github.com/ByLCY/newsletter/pipeline"
	"github.com/ByLCY/newsletter/typeset"
)

// 导出给 main 使用的日志级别。
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI 保存各子命令共享的状态。
type CLI struct {
	Logger     *log.Logger
	configPath string
	config     config.Config
}

// New 创建 CLI，日志写入 w。
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		config: config.Default(),
	}
}

// SetLogLevel 调整日志级别。
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand 创建根命令并注册全部子命令。
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "newsletter",
		Short:        "Newsletter lays out weekly newsletters as A4 PDFs",
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML 配置文件路径")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.typesetCommand())
	root.AddCommand(c.serveCommand())
	return root
}

// runner 根据配置组装 pipeline.Runner；返回的 close 释放缓存连接。
func (c *CLI) runner(ctx context.Context) (*pipeline.Runner, func(), error) {
	cfg := c.config
	logger := loggerFromContext(ctx)

	r := &pipeline.Runner{Logger: logger}
	if cfg.Render.Logo != "" {
		data, err := os.ReadFile(cfg.Render.Logo)
		if err != nil {
			return nil, nil, fmt.Errorf("读取 logo 失败: %w", err)
		}
		r.Logo = &layout.ImageSource{Name: filepath.Base(cfg.Render.Logo), Data: data}
	}
	if len(cfg.Render.Fonts) > 0 {
		r.Fonts = map[string][]byte{}
		for key, path := range cfg.Render.Fonts {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, nil, fmt.Errorf("读取字体 %s 失败: %w", key, err)
			}
			r.Fonts[key] = data
		}
	}

	store, err := c.cache(ctx)
	if err != nil {
		return nil, nil, err
	}
	httpClient := newHTTPClient(cfg.Typeset.Timeout.Duration)
	r.Compiler = &typeset.Client{
		Endpoint:   cfg.Typeset.Endpoint,
		HTTPClient: httpClient,
		Cache:      store,
		TTL:        cfg.Cache.TTL.Duration,
		Logger:     logger,
		Attempts:   cfg.Typeset.Attempts,
		Delay:      cfg.Typeset.Delay.Duration,
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("关闭缓存失败", "err", err)
		}
	}
	return r, closeFn, nil
}

func (c *CLI) cache(ctx context.Context) (cache.Cache, error) {
	cfg := c.config.Cache
	switch cfg.Kind {
	case "file":
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return cache.NullCache{}, nil
	}
}
