// Package testutil provides shared test fixtures. Tests run against an
// in-memory sqlite database with the same translated-error behavior the
// mysql connection uses in production.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"flagdeck/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a fresh in-memory database migrated with the full schema.
// Each call gets its own database, so tests stay independent.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	// cache=shared keeps the whole connection pool on one database; the
	// unique name keeps databases from bleeding between tests.
	name := fmt.Sprintf("%s_%d", strings.ReplaceAll(t.Name(), "/", "_"), dbSeq.Add(1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.FeatureFlag{},
		&model.FeatureConfig{},
		&model.FeatureConfigFlag{},
		&model.FeatureConfigVersion{},
		&model.BotConfig{},
		&model.BotConfigVersion{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func Ptr[T any](v T) *T {
	return &v
}
