package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"eventtracks/config"
	"eventtracks/internal/adapters/api"
	"eventtracks/internal/adapters/imageconv"
	"eventtracks/internal/domain"
	"eventtracks/internal/normalize"
	"eventtracks/internal/repository/sqldb"
	"eventtracks/internal/retry"
	"eventtracks/internal/services"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger

	apiOnce sync.Once
	api     domain.EventsAPI
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = cfg.NewLogger()
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) client() domain.EventsAPI {
	c.apiOnce.Do(func() {
		cfg := c.config
		c.api = api.NewClient(cfg.APIURL, cfg.HTTPTimeout, api.WithLogger(c.logger))
	})
	return c.api
}

func (c *commandContext) deps() services.Deps {
	return services.Deps{
		API:        c.client(),
		Images:     imageconv.NewEncoder(nil),
		Normalizer: normalize.New(c.logger),
		Retry: retry.Policy{
			MaxRetries:   c.config.MaxRetries,
			InitialDelay: c.config.RetryDelay,
		},
		// The HTTP timeout bounds each attempt; the whole operation may span retries.
		Timeout: c.config.HTTPTimeout * time.Duration(c.config.MaxRetries+2),
		Logger:  c.logger,
	}
}

func (c *commandContext) normalizer() *normalize.Normalizer {
	return normalize.New(c.logger)
}

// withSessions opens the session store for the duration of fn.
func (c *commandContext) withSessions(ctx context.Context, fn func(domain.SessionRepository) error) error {
	db, err := sqldb.Open(ctx, c.config.DatabaseType, c.config.DBUrl)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			c.logger.Warn("close session store", "err", err)
		}
	}(db)
	if err := sqldb.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return fn(sqldb.NewSessionRepository(db, c.config.DatabaseType))
}
