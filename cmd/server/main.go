package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/hashboard/stat18ion/internal/container"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func buildInjector(options *container.Options) *do.Injector {
	injector := do.New()
	do.ProvideValue(injector, options)

	for _, register := range []func(*do.Injector){
		container.LoggerPackage,
		container.RedisPackage,
		container.PostgresPackage,
		container.RateLimitPackage,
		container.AuthPackage,
		container.SitePackage,
		container.StatsPackage,
		container.PublisherPackage,
		container.IngestPackage,
		container.HealthPackage,
		container.HTTPPackage,
	} {
		register(injector)
	}

	return injector
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := buildInjector(options)
		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoking the API attaches middleware and routes to the router.
			_ = do.MustInvoke[huma.API](injector)

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("http server listening", zap.Int("port", options.Port))

			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("http server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("http server shutdown", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("container shutdown", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Run()
}
