package infra

import (
	"context"
	"time"

	"github.com/fystack/appstate/pkg/common/constant"
	"github.com/fystack/appstate/pkg/common/logger"
	"github.com/fystack/appstate/pkg/retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDBConnection opens the record database, retrying while the server is
// still coming up.
func NewDBConnection(ctx context.Context, dsn string, environment string) (*gorm.DB, error) {
	var db *gorm.DB
	err := retry.Exponential(ctx, func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		return err
	}, retry.ExponentialConfig{
		InitialInterval: 500 * time.Millisecond,
		MaxElapsedTime:  15 * time.Second,
		OnRetry: func(err error, next time.Duration) {
			logger.Warn("Database not ready, retrying", "err", err, "next", next)
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established!", "database", db.Name())

	if environment != constant.EnvProduction {
		// only print debug logs when not in production
		db = db.Debug()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// A desktop app needs few connections.
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
