package main

import (
	"log/slog"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/lib/validator"
	"reviewhub/proj/internal/services"
	"reviewhub/proj/internal/storage/postgres"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	Services  *services.Services
	validator *govalidator.Validate
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage) *Application {
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: newValidator(),
		Services:  services.New(log, cfg, storage),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}

func newValidator() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterValidation("username", validator.ValidateUsername)
	v.RegisterValidation("notfutureyear", validator.ValidateNotFutureYear)
	v.RegisterValidation("slug", validator.ValidateSlug)
	return v
}
