package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/newsletter/binding"
	"github.com/ByLCY/newsletter/content"
	"github.com/ByLCY/newsletter/layout"
	"github.com/ByLCY/newsletter/pipeline"
)

type renderOpts struct {
	output  string
	backend string
	format  string
	dpmm    float64
	debug   string
	data    string
	logo    string
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "在本地排版内容文件并输出 PDF、SVG 或 PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "输出路径（默认按标题与时间戳命名）")
	f.StringVar(&opts.backend, "backend", "", "渲染后端: canvas 或 fpdf")
	f.StringVar(&opts.format, "format", "", "输出格式: pdf、svg 或 png")
	f.Float64Var(&opts.dpmm, "dpmm", 0, "PNG 分辨率（每毫米像素）")
	f.StringVar(&opts.debug, "debug", "", "排版指令 JSON 输出路径")
	f.StringVar(&opts.data, "data", "", "绑定到 ${...} 占位符的 JSON 数据")
	f.StringVar(&opts.logo, "logo", "", "logo 图片路径（覆盖配置）")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := parseData(opts.data)
	if err != nil {
		return err
	}
	n, err := content.Load(path, data)
	if err != nil {
		return err
	}
	warnUnresolved(logger, n, data)

	runner, closeFn, err := c.runner(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	if opts.logo != "" {
		raw, err := os.ReadFile(opts.logo)
		if err != nil {
			return fmt.Errorf("读取 logo 失败: %w", err)
		}
		runner.Logo = &layout.ImageSource{Name: filepath.Base(opts.logo), Data: raw}
	}

	out, err := runner.Direct(ctx, n, pipeline.Options{
		Backend:   firstNonEmpty(opts.backend, c.config.Render.Backend),
		Format:    firstNonEmpty(opts.format, c.config.Render.Format),
		DPMM:      firstPositive(opts.dpmm, c.config.Render.DPMM),
		DebugPath: opts.debug,
	})
	if err != nil {
		return err
	}
	dest := firstNonEmpty(opts.output, out.Filename)
	if err := writeOutput(dest, out.Data); err != nil {
		return err
	}
	prog.done("已生成", "path", dest, "bytes", len(out.Data))
	return nil
}

func parseData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// warnUnresolved 提示正文中未被 --data 替换的占位符，它们会原样出现在版面上。
func warnUnresolved(logger *log.Logger, n content.Newsletter, data any) {
	fields := []string{n.Title, n.News1Title, n.News1Content, n.News2Title, n.News2Content, n.OfficeNewsTitle, n.OfficeNewsContent}
	var missing []string
	seen := map[string]bool{}
	for _, f := range fields {
		for _, p := range binding.Unresolved(f, data) {
			if !seen[p] {
				seen[p] = true
				missing = append(missing, p)
			}
		}
	}
	if len(missing) > 0 {
		logger.Warn("存在未解析的占位符", "paths", missing)
	}
}
