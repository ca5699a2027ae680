package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prudhvinik1/presence/internal/config"
	"github.com/prudhvinik1/presence/internal/database"
	"github.com/prudhvinik1/presence/internal/models"
	"github.com/prudhvinik1/presence/internal/repositories"
	"github.com/prudhvinik1/presence/internal/services"
	"github.com/redis/go-redis/v9"
)

type dependencies struct {
	Config   *config.Config
	Presence *services.PresenceService
	Verifier services.TokenVerifier

	pool        *pgxpool.Pool
	redisClient *redis.Client
}

func newDependencies(ctx context.Context) (*dependencies, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	deps := &dependencies{Config: cfg}

	if cfg.UsesPostgres() {
		deps.pool, err = database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
	}

	if cfg.UsesRedis() {
		deps.redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			deps.Close()
			return nil, err
		}
	}

	var presenceRepo repositories.PresenceRepository
	switch cfg.PresenceStore {
	case config.StorePostgres:
		presenceRepo = repositories.NewPostgresPresenceRepository(deps.pool)
	case config.StoreRedis:
		presenceRepo = repositories.NewRedisPresenceRepository(deps.redisClient)
	default:
		presenceRepo = repositories.NewMemoryPresenceRepository()
	}

	var accountRepo repositories.AccountRepository
	switch cfg.DirectoryStore {
	case config.StorePostgres:
		accountRepo = repositories.NewPostgresAccountRepository(deps.pool)
	default:
		accountRepo = repositories.NewMemoryAccountRepository(seedAccounts(cfg.DirectorySeed)...)
	}

	switch cfg.AuthMode {
	case config.AuthModeNoop:
		deps.Verifier = services.NoopVerifier{}
	default:
		var sessions repositories.SessionRepository
		if deps.redisClient != nil {
			sessions = repositories.NewRedisSessionRepository(deps.redisClient)
		}
		deps.Verifier = services.NewJWTVerifier(cfg.JWTSecret, cfg.JWTExpiry, sessions)
	}

	deps.Presence, err = services.NewPresenceService(presenceRepo, accountRepo, services.NewSystemClock(), cfg.PresenceWindow)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("presence service init error: %w", err)
	}

	return deps, nil
}

func seedAccounts(entries []config.DirectoryEntry) []models.Account {
	accounts := make([]models.Account, 0, len(entries))
	for _, entry := range entries {
		accounts = append(accounts, models.Account{
			ID:          entry.ID,
			DisplayName: entry.DisplayName,
			IsActive:    true,
		})
	}
	return accounts
}

func (d *dependencies) Close() {
	if d.redisClient != nil {
		_ = d.redisClient.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
