package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"rentshare/internal/audit"
	"rentshare/internal/config"
	"rentshare/internal/item"
	"rentshare/internal/telemetry"
	"rentshare/internal/user"
	"rentshare/pkg/eventstore"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "items").Logger()

	cfg, err := config.Load("8081")
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	shutdown, err := telemetry.Setup(context.Background(), "rentshare-items", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("set up telemetry")
	}
	defer shutdown(context.Background())

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	repo := item.NewPostgresRepository(db)
	users := user.NewPostgresRepository(db)
	events := eventstore.New(db)
	svc := item.NewService(repo, users, events, audit.NewLog(logger))
	handler := item.NewHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Mount("/", handler.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	logger.Info().Str("port", cfg.Server.Port).Msg("starting item service")
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
