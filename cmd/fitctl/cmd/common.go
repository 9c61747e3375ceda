package cmd

import (
	"context"

	"github.com/templui/fittrack/internal/app"
	"github.com/templui/fittrack/internal/config"
	"github.com/templui/fittrack/internal/logger"
)

// withApp loads configuration, connects and runs fn with the wired services.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return fn(a)
}
