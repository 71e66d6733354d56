package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/newsletter/content"
)

type typesetOpts struct {
	output  string
	texOnly bool
	data    string
}

func (c *CLI) typesetCommand() *cobra.Command {
	var opts typesetOpts
	cmd := &cobra.Command{
		Use:   "typeset FILE",
		Short: "生成 LaTeX 源码并交给远程编译服务输出 PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTypeset(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "输出路径（--tex-only 时默认写到标准输出）")
	f.BoolVar(&opts.texOnly, "tex-only", false, "只输出 LaTeX 源码，不调用编译服务")
	f.StringVar(&opts.data, "data", "", "绑定到 ${...} 占位符的 JSON 数据")
	return cmd
}

func (c *CLI) runTypeset(cmd *cobra.Command, path string, opts typesetOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	data, err := parseData(opts.data)
	if err != nil {
		return err
	}
	n, err := content.Load(path, data)
	if err != nil {
		return err
	}
	warnUnresolved(logger, n, data)
	if n.News1Image != nil || n.News2Image != nil {
		logger.Warn("远程排版不包含文章配图")
	}

	runner, closeFn, err := c.runner(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if opts.texOnly {
		src, err := runner.Source(n)
		if err != nil {
			return err
		}
		if opts.output == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), src)
			return err
		}
		return writeOutput(opts.output, []byte(src))
	}

	prog := newProgress(logger)
	out, err := runner.Typeset(ctx, n)
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
