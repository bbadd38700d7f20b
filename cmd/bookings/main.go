package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"rentshare/internal/audit"
	"rentshare/internal/booking"
	"rentshare/internal/clients"
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
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "bookings").Logger()

	cfg, err := config.Load("8082")
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	shutdown, err := telemetry.Setup(context.Background(), "rentshare-bookings", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("set up telemetry")
	}
	defer shutdown(context.Background())

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	// Users and items are read from the shared database unless remote
	// service URLs are configured.
	var users booking.UserDirectory = user.NewPostgresRepository(db)
	if cfg.Services.UserURL != "" {
		users = clients.NewUserClient(cfg.Services.UserURL)
	}
	var items booking.ItemDirectory = item.NewPostgresRepository(db)
	if cfg.Services.ItemURL != "" {
		items = clients.NewItemClient(cfg.Services.ItemURL)
	}

	repo := booking.NewPostgresRepository(db)
	events := eventstore.New(db)
	svc := booking.NewService(repo, users, items, events, audit.NewLog(logger))
	handler := booking.NewHandler(svc)

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

	logger.Info().Str("port", cfg.Server.Port).Msg("starting booking service")
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
