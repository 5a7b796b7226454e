package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ariebrainware/comorbidity-network/endpoint"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the comorbidity HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), st)
		},
	}
}

func serve(ctx context.Context, st *state) error {
	cfg, log := st.cfg, st.log

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	gin.SetMode(cfg.GinMode)
	h := endpoint.NewHandler(endpoint.Options{
		AppName: cfg.AppName,
		Store:   a.store,
		Cache:   a.cache,
		Runner:  a.runner,
		Log:     log,
	})
	router := endpoint.NewRouter(h, endpoint.RouterOptions{
		Log:       log,
		Redis:     a.redis,
		JWTSecret: cfg.JWTSecret,
		Metrics:   promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
	})
	if cfg.JWTSecret == "" {
		log.Warn("JWTSECRET is empty, recompute endpoint is disabled")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
