package cli

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	sighttp "github.com/kernel-auth/sigverify/http"
	"github.com/kernel-auth/sigverify/metrics"
)

var (
	listenAddress string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP verification server",
		Long: `Run the HTTP verification server.

Routes:
  GET  /healthz
  GET  /v1/accounts/:identity
  POST /v1/format
  POST /v1/verify
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			a, err := newApp(ctx, metrics.NewVerifierMetrics(registry))
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.ListenAddress
			if listenAddress != "" {
				addr = listenAddress
			}

			server := sighttp.NewServer(a.verifier,
				sighttp.WithLogger(a.logger),
				sighttp.WithGatherer(registry),
				sighttp.WithNetwork(a.cfg.Network),
				sighttp.WithRequestTimeout(a.cfg.Timeout),
			)
			if err := server.Run(ctx, addr); err != nil {
				return infraError(err)
			}
			return nil
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&listenAddress, "listen", "", "listen address, overrides listen_address from config")
	rootCmd.AddCommand(serveCmd)
}
