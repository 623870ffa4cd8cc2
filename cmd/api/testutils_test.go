package main

import (
	"io"
	"log/slog"
	"testing"

	"reviewhub/proj/internal/config"
)

func NewTestApplication(cfg *config.Config, t *testing.T) *Application {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Application{
		cfg:       cfg,
		log:       log,
		validator: newValidator(),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
