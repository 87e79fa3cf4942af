package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/storefront/internal/mockapi"
	"github.com/donaldgifford/storefront/pkg/logger"
)

func mockServerCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve the catalog API from built-in fixtures",
		Long: "mock-server serves /products, /products/search and /carts/{id}\n" +
			"from embedded fixtures, plus /healthz and /metrics. Point the\n" +
			"other commands at it with --api.",
		Example: `  storefront mock-server --port 8089
  storefront --api http://127.0.0.1:8089 shop`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.MockServer.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.MockServer.Port = port
			}
			log := newLogger(cfg)

			srv, err := mockapi.New(mockapi.WithLogger(logger.Component(log, "mockapi")))
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", cfg.MockServer.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.MockServer.Addr(), err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx, ln)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "listen host")
	cmd.Flags().IntVar(&port, "port", 8089, "listen port")

	return cmd
}
