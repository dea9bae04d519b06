// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/internal/models"
)

// Open returns a migrated in-memory database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func SeedUser(t testing.TB, db *gorm.DB, nickname string, balance int64) *models.User {
	t.Helper()
	user := models.User{Nickname: nickname, Balance: balance}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func SeedPrize(t testing.TB, db *gorm.DB, title string, cost int, active bool) *models.Prize {
	t.Helper()
	prize := models.Prize{Title: title, Cost: cost, Active: active, VisibleInStore: true}
	require.NoError(t, db.Create(&prize).Error)
	return &prize
}
