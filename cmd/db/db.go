package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/config"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

// Open connects to the configured database driver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if cfg.GinMode == "debug" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		pgCfg, err := pgx.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, logger.WrapError(err, "parse postgres dsn")
		}
		// Simple protocol keeps PgBouncer-style poolers happy.
		pgCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		dialector = postgres.New(postgres.Config{Conn: stdlib.OpenDB(*pgCfg)})
	case "mysql":
		dialector = mysql.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, logger.WrapError(errors.New("unsupported driver"), cfg.DBDriver)
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, logger.WrapError(err, fmt.Sprintf("open %s", cfg.DBDriver))
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	if cfg.DBDriver == "sqlite" {
		// A single writer avoids "database is locked" under concurrent requests.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxIdleTime(4 * time.Minute)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err = sqlDB.Ping(); err != nil {
		return nil, logger.WrapError(err, "ping")
	}

	logger.Info("Connected to %s database", cfg.DBDriver)
	return gdb, nil
}
