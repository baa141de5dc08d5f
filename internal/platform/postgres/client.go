package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"pihooks/internal/platform/config"
)

// Client wraps a database/sql pool opened with the lib/pq driver.
type Client struct {
	*sql.DB
}

// New opens and pings a pool. Returns nil if the DSN is empty.
func New(ctx context.Context, cfg config.PostgresConfig) (*Client, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &Client{DB: db}, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.PingContext(ctx)
}
