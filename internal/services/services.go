package services

import (
	"log/slog"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/mails"
	"reviewhub/proj/internal/services/auth"
	"reviewhub/proj/internal/services/catalog"
	"reviewhub/proj/internal/services/reviews"
	"reviewhub/proj/internal/services/users"
	"reviewhub/proj/internal/storage/postgres"
	dbmodels "reviewhub/proj/internal/storage/postgres/models"
)

type Services struct {
	Auth    *auth.AuthService
	Catalog *catalog.CatalogService
	Reviews *reviews.ReviewService
	Users   *users.UserService
}

func New(log *slog.Logger, cfg *config.Config, storage *postgres.Storage) *Services {
	mailer := mails.New(
		cfg.SMTPServer.Host,
		cfg.SMTPServer.Port,
		cfg.SMTPServer.Timeout,
		cfg.SMTPServer.Username,
		cfg.SMTPServer.Password,
		cfg.SMTPServer.Sender,
		cfg.SMTPServer.RetriesCount,
	)
	m := dbmodels.New(storage)
	return &Services{
		Auth:    auth.New(log, m.Users, mailer, cfg.AppSecret, cfg.TokenTTL, cfg.CodeTTL),
		Catalog: catalog.New(log, m.Categories, m.Genres, m.Titles),
		Reviews: reviews.New(log, m.Reviews, m.Comments, m.Titles),
		Users:   users.New(log, m.Users),
	}
}
