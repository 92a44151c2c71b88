// Package cli assembles the quote agent and its adapters from configuration.
// The commands under cmd/quoteagent share it so every surface runs against
// the same stores.
package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/richfrem/quoteagent"
	"github.com/richfrem/quoteagent/internal/config"
	"github.com/richfrem/quoteagent/pkg/adapters/file"
	"github.com/richfrem/quoteagent/pkg/adapters/memory"
	"github.com/richfrem/quoteagent/pkg/adapters/postgres"
	"github.com/richfrem/quoteagent/pkg/adapters/redis"
	"github.com/richfrem/quoteagent/pkg/adapters/supabase"
	"github.com/richfrem/quoteagent/pkg/followup"
	"github.com/richfrem/quoteagent/pkg/observability"
	"github.com/richfrem/quoteagent/pkg/persistence/middleware"
	"github.com/richfrem/quoteagent/pkg/ports"
)

// Backend is a configured agent plus the resources it holds open.
type Backend struct {
	Agent    *quoteagent.Agent
	Metrics  *observability.Metrics
	Identity ports.IdentityProvider

	closers []func() error
}

// Close releases database and cache connections.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build wires an agent from cfg. catalogPath overrides cfg.CatalogPath
// when set. Follow-ups and Postgres are only enabled when configured.
func Build(ctx context.Context, cfg *config.Config, catalogPath string, logger *slog.Logger) (*Backend, error) {
	if catalogPath == "" {
		catalogPath = cfg.CatalogPath
	}

	b := &Backend{Metrics: observability.NewMetrics(logger)}
	opts := []quoteagent.Option{
		quoteagent.WithLogger(logger),
		quoteagent.WithMetrics(b.Metrics),
	}

	var store ports.SessionStore
	switch cfg.Session.Backend {
	case config.BackendMemory:
		store = memory.NewStore()
	case config.BackendFile:
		fs := file.New(cfg.Session.Dir)
		store = fs
		logger.Info("Using file session store", "dir", fs.BasePath)
	case config.BackendRedis:
		var storeOpts []redis.Option
		if cfg.Session.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(cfg.Session.TTL))
		}
		rs := redis.New(cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.RedisDB, storeOpts...)
		b.closers = append(b.closers, rs.Close)
		store = rs
		opts = append(opts, quoteagent.WithLocker(redis.NewLocker(rs.Client(), "quoteagent:")))
		logger.Info("Using Redis session store", "address", cfg.Session.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown session backend '%s'", cfg.Session.Backend)
	}

	if cfg.Session.EncryptionKey != "" {
		mw, err := encryption(cfg.Session)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		store = middleware.Chain(store, mw)
		logger.Info("Sessions encrypted at rest")
	}
	opts = append(opts, quoteagent.WithStore(store))

	gen, err := followup.NewOpenAI(ctx, followup.Config{
		APIKey:      cfg.FollowUp.APIKey,
		BaseURL:     cfg.FollowUp.BaseURL,
		Model:       cfg.FollowUp.Model,
		Temperature: cfg.FollowUp.Temperature,
		MaxTokens:   cfg.FollowUp.MaxTokens,
	}, logger)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	opts = append(opts, quoteagent.WithFollowUpGenerator(gen))

	if cfg.DatabaseURL != "" {
		repo, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.closers = append(b.closers, repo.Close)
		opts = append(opts, quoteagent.WithSubmissionRepository(repo))
		logger.Info("Submissions persisted to Postgres")
	} else {
		logger.Warn("DATABASE_URL not set, submissions kept in memory")
	}

	if cfg.SupabaseURL != "" {
		b.Identity = supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	}

	b.Agent, err = quoteagent.New(catalogPath, opts...)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func encryption(cfg config.SessionConfig) (middleware.Middleware, error) {
	decode := func(name, raw string) ([]byte, error) {
		key, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
		}
		return key, nil
	}

	active, err := decode("SESSION_ENCRYPTION_KEY", cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	ec := middleware.EncryptionConfig{ActiveKey: active}
	for _, raw := range cfg.FallbackKeys {
		key, err := decode("SESSION_ENCRYPTION_FALLBACK_KEYS", raw)
		if err != nil {
			return nil, err
		}
		ec.FallbackKeys = append(ec.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(ec)
}
