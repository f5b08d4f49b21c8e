package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurpe/amc-manager/internal/config"
	"github.com/nurpe/amc-manager/internal/db"
	"github.com/nurpe/amc-manager/internal/email"
	"github.com/nurpe/amc-manager/internal/excel"
	httphandler "github.com/nurpe/amc-manager/internal/http"
	"github.com/nurpe/amc-manager/internal/logger"
	"github.com/nurpe/amc-manager/internal/metrics"
	"github.com/nurpe/amc-manager/internal/model"
	"github.com/nurpe/amc-manager/internal/pdf"
	"github.com/nurpe/amc-manager/internal/repository"
	"github.com/nurpe/amc-manager/internal/service"
	"github.com/nurpe/amc-manager/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)
	ctx := context.Background()

	blobs, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}

	startedAt := time.Now()
	repo := repository.NewAMCRepository(
		ctx,
		blobs,
		repository.NewClockIDs(time.Now),
		repository.Defaults{
			Customers: model.SeedCustomers(),
			Contracts: model.SeedContracts(startedAt),
		},
		log,
	)

	m := metrics.New()

	var provider email.Provider
	if cfg.Email.APIKey != "" {
		gemini, err := email.NewGeminiProvider(ctx, email.GeminiConfig{
			APIKey:  cfg.Email.APIKey,
			Model:   cfg.Email.Model,
			BaseURL: cfg.Email.BaseURL,
		}, &http.Client{Timeout: cfg.Email.Timeout})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init email provider")
		}
		provider = gemini
	} else {
		log.Warn().Msg("no email provider credential configured, reminders use the template")
	}
	drafter := email.NewDrafter(provider, cfg.Email.Timeout, m, log)

	amcService := service.NewAMCService(repo, pdf.NewGenerator(), excel.NewGenerator(), drafter, cfg)

	handler := httphandler.NewHandler(amcService, log)
	router := httphandler.NewRouter(handler, m, cfg.HTTP.AllowedOrigins, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("store", cfg.Store.Driver).Msg("starting amc service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.BlobStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(), nil
	case config.StoreDriverPostgres:
		database, err := db.New(cfg, log)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(database), nil
	case config.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return store.NewRedisStore(client, cfg.Store.KeyPrefix), nil
	default:
		return store.NewFileStore(cfg.Store.Dir)
	}
}
