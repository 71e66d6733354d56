package cli

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/newsletter/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, closeFn, err := c.runner(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			cfg := c.config.Server
			srv := server.New(runner, loggerFromContext(ctx), server.Options{
				Addr:            firstNonEmpty(addr, cfg.Addr),
				ReadTimeout:     cfg.ReadTimeout.Duration,
				WriteTimeout:    cfg.WriteTimeout.Duration,
				ShutdownTimeout: cfg.ShutdownTimeout.Duration,
				MaxUploadBytes:  cfg.MaxUploadMB << 20,
			})
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "监听地址（覆盖配置）")
	return cmd
}
