// Package pipeline 串联内容校验、排版与渲染，供 CLI 与 HTTP 服务共用。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/newsletter/assets"
	"github.com/ByLCY/newsletter/content"
	"github.com/ByLCY/newsletter/layout"
	"github.com/ByLCY/newsletter/renderer"
	canvasrenderer "github.com/ByLCY/newsletter/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/newsletter/renderer/fpdf"
	"github.com/ByLCY/newsletter/typeset"
)

// 渲染后端名称。
const (
	BackendCanvas = "canvas"
	BackendFPDF   = "fpdf"
)

// ErrUnsupported 表示后端与输出格式的组合不受支持。
var ErrUnsupported = errors.New("pipeline: 不支持的后端或格式")

// Compiler 将 LaTeX 源码编译为 PDF，typeset.Client 实现了该接口。
type Compiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
}

var _ Compiler = (*typeset.Client)(nil)

// Options 控制一次直接排版。
type Options struct {
	Backend   string  // canvas（默认）或 fpdf
	Format    string  // pdf（默认）、svg 或 png；fpdf 只支持 pdf
	DPMM      float64 // PNG 分辨率
	DebugPath string  // 非空时写出排版指令 JSON
}

// Output 是一次生成的结果。
type Output struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Runner 持有生成所需的共享依赖。后端在每次调用时新建，Runner 可并发使用。
type Runner struct {
	Logger   *log.Logger
	Compiler Compiler
	Logo     *layout.ImageSource // 为空时使用内嵌 logo
	Fonts    map[string][]byte   // canvas 后端的字体覆盖
	Now      func() time.Time
}

// Direct 校验并规范化内容，在本地完成排版与渲染。
func (r *Runner) Direct(ctx context.Context, n content.Newsletter, opts Options) (*Output, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	n = n.Normalize()

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = renderer.FormatPDF
	}
	backend, err := r.newBackend(opts.Backend, format, opts.DPMM)
	if err != nil {
		return nil, err
	}

	logger := r.logger().With("backend", backendName(opts.Backend), "format", format)
	res, err := layout.Build(n.ToLayout(r.logo()), layout.BuildOptions{Fonts: backend, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("排版失败: %w", err)
	}
	if opts.DebugPath != "" {
		if err := layout.WriteDebugJSON(res, opts.DebugPath); err != nil {
			return nil, fmt.Errorf("写入排版调试文件失败: %w", err)
		}
		logger.Debug("已写出排版指令", "path", opts.DebugPath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := backend.Render(res)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	logger.Info("生成完成", "title", n.Title, "bytes", len(data))
	return &Output{
		Data:        data,
		ContentType: renderer.ContentType(format),
		Filename:    r.filename(n.Title, format),
	}, nil
}

// Source 返回远程排版所用的 LaTeX 源码。
func (r *Runner) Source(n content.Newsletter) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	return typeset.Source(typeset.FromNewsletter(n.Normalize()))
}

// Typeset 生成 LaTeX 源码并交给 Compiler 编译。
func (r *Runner) Typeset(ctx context.Context, n content.Newsletter) (*Output, error) {
	if r.Compiler == nil {
		return nil, fmt.Errorf("%w: 未配置 LaTeX 编译服务", ErrUnsupported)
	}
	src, err := r.Source(n)
	if err != nil {
		return nil, err
	}
	data, err := r.Compiler.Compile(ctx, src)
	if err != nil {
		return nil, err
	}
	return &Output{
		Data:        data,
		ContentType: renderer.ContentType(renderer.FormatPDF),
		Filename:    r.filename(n.Normalize().Title, renderer.FormatPDF),
	}, nil
}

func (r *Runner) newBackend(name, format string, dpmm float64) (renderer.Backend, error) {
	switch backendName(name) {
	case BackendCanvas:
		switch format {
		case renderer.FormatPDF, renderer.FormatSVG, renderer.FormatPNG:
		default:
			return nil, fmt.Errorf("%w: canvas/%s", ErrUnsupported, format)
		}
		return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			Format: format,
			DPMM:   dpmm,
			Fonts:  r.Fonts,
		}), nil
	case BackendFPDF:
		if format != renderer.FormatPDF {
			return nil, fmt.Errorf("%w: fpdf/%s", ErrUnsupported, format)
		}
		return fpdfrenderer.NewRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: 后端 %q", ErrUnsupported, name)
	}
}

func backendName(name string) string {
	if name == "" {
		return BackendCanvas
	}
	return strings.ToLower(name)
}

func (r *Runner) filename(title, format string) string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	name := content.Filename(title, now())
	return strings.TrimSuffix(name, ".pdf") + "." + format
}

func (r *Runner) logo() layout.ImageSource {
	if r.Logo != nil {
		return *r.Logo
	}
	return assets.Logo()
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
