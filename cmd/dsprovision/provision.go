// cmd/dsprovision/provision.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/chmenegatti/dsprovision/pkg/config"
	"github.com/chmenegatti/dsprovision/pkg/datasource"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
	"github.com/chmenegatti/dsprovision/pkg/logging"
)

var (
	metricsAddr  string
	selectMaster bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Open every configured data source and report its health",
	Long: `Loads the db.* settings, opens one pool per data source and pings each of them.
With --metrics-addr the pools stay open and their statistics are served on /metrics until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return errors.Wrap(err, "error loading configuration")
		}
		log := logging.New(cfg.Logging, cmd.ErrOrStderr())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := []datasource.Option{datasource.WithLogger(log)}
		provisionerOpts := []datasource.Option{datasource.WithLogger(log)}

		var cb datasource.Callback = func(pool common.Pool) {
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s (%s)\n", pool.Config().JDBCURL, pool.Config().DriverClassName)
		}
		reg := prometheus.NewRegistry()
		if cfg.Metrics.Enabled || metricsAddr != "" {
			m, err := datasource.NewMetrics(reg, cfg.Metrics.Namespace, opts...)
			if err != nil {
				return errors.Wrap(err, "registering metrics")
			}
			cb = m.Callback(cb)
			provisionerOpts = append(provisionerOpts, datasource.WithRollback(m.Forget))
		}

		svc := datasource.NewService(cfg.DB.Platform,
			datasource.NewProvisioner(datasource.NewSQLPoolFactory(opts...), provisionerOpts...), opts...)

		if err := svc.Init(ctx, cfg.DB, cb); err != nil {
			return errors.Wrap(err, "provisioning data sources")
		}
		defer func() {
			if err := svc.Close(); err != nil {
				log.Warn().Err(err).Msg("closing data sources")
			}
		}()

		if selectMaster {
			idx, err := svc.SelectMaster(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Master: %d (%s)\n", idx, svc.CurrentURL())
		}

		for i, state := range svc.Health(ctx) {
			fmt.Fprintf(cmd.OutOrStdout(), "Data source %d: %s\n", i, state)
		}

		if metricsAddr == "" {
			return nil
		}
		return serveMetrics(ctx, metricsAddr, reg)
	},
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving metrics")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	provisionCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve pool metrics on this address (e.g. :9090) until interrupted")
	provisionCmd.Flags().BoolVar(&selectMaster, "select-master", false, "Probe the pools and make the first writable one the master")
}
