package storage

import (
	"context"
	"fmt"

	"trackmyprogress/internal/cache"
	"trackmyprogress/internal/config"
	"trackmyprogress/internal/db"
	"trackmyprogress/internal/repository"
)

var (
	_ Store = (*cache.Client)(nil)
	_ Store = (*repository.StoreRepository)(nil)
)

// Open builds the store selected by cfg.StoreDriver. The returned close function
// releases driver resources and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case "memory":
		return NewMemory(), noop, nil
	case "file":
		return NewFile(cfg.StorePath), noop, nil
	case "bolt":
		b, err := OpenBolt(cfg.StorePath)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case "redis":
		c := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisPrefix)
		if err := c.Ping(ctx); err != nil {
			c.Close()
			return nil, noop, err
		}
		return c, c.Close, nil
	case "mysql":
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("mysql handle: %w", err)
		}
		return repository.NewStoreRepository(gormDB), sqlDB.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
