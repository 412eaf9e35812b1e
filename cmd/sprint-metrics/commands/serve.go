package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sprint-metrics/internal/httpapi"
	"sprint-metrics/internal/jobs"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API and dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr := serveAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}

		router, err := httpapi.NewRouter(service, exporter, log.Logger, verbose)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if cfg.DigestCron != "" {
			digest, err := jobs.NewDigest(cfg.DigestCron, cfg.Location, service, cfg.DigestBoards, cfg.ExportDir, log.Logger)
			if err != nil {
				return err
			}
			digest.Start()
			defer digest.Stop()
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("HTTP server listening")
			errCh <- srv.ListenAndServe()
		}()

		if serveOpen {
			if err := browser.OpenURL(dashboardURL(addr)); err != nil {
				log.Warn().Err(err).Msg("Failed to open browser")
			}
		}

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// dashboardURL turns a listen address into a URL a browser can open.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr + "/"
	}
	return "http://" + addr + "/"
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the dashboard in the default browser")
}
