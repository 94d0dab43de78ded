package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumina-learn/lumina/internal/api"
	"github.com/lumina-learn/lumina/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := metrics.New()
		rt, err := openRuntime(cmd, runtimeOpts{metrics: m, enrichOnLoad: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = rt.cfg.HTTPAddr
		}

		m.TrackStudents(rt.students.Len)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt.logger.Info("serving API",
			zap.String("addr", addr),
			zap.String("backend", rt.cfg.StoreBackend),
			zap.Bool("insights", rt.insights != nil),
		)
		return api.New(rt.students, rt.persist, m, rt.logger).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LUMINA_HTTP_ADDR)")
}
