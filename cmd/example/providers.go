package main

import (
	"net/http"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/Ngone6325/autoinject"
	"github.com/Ngone6325/autoinject/di"
	"github.com/Ngone6325/autoinject/example/app"
	"github.com/Ngone6325/autoinject/internal/config"
	"github.com/Ngone6325/autoinject/internal/logging"
)

// serverSet builds the HTTP server from the configuration.
var serverSet = wire.NewSet(
	provideLogger,
	provideContainer,
	app.NewRouter,
	provideServer,
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideContainer registers the logger and every service reachable from the
// entry module, example/app.
func provideContainer(cfg *config.Config, logger *zap.Logger) (*di.Container, error) {
	c := di.NewContainer(cfg.ContainerOptions(logger)...)
	if err := c.RegisterInstance(logger, di.Singleton); err != nil {
		return nil, err
	}
	return autoinject.AddInjectableServices(c, cfg.RegistrationOptions(logger)...)
}

func provideServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
