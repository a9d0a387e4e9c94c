// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"testing"

	"agrocredit-backend/internal/domain/farmer"
	"agrocredit-backend/internal/infrastructure/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database. A single connection keeps the in-memory
// schema alive and serializes writers the way a row lock would.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	opts := db.DefaultOptions()
	opts.LogLevel = logger.Silent
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1

	gdb, err := db.OpenGormWithDialector(sqlite.Open(":memory:?_foreign_keys=on"), opts)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// SeedFarm inserts a farmer with one farm and returns both.
func SeedFarm(t testing.TB, gdb *gorm.DB, email string) (*farmer.Farmer, *farmer.Farm) {
	t.Helper()
	f := &farmer.Farmer{Email: email, FullName: "Test " + email, CreditScore: 700}
	if err := gdb.Create(f).Error; err != nil {
		t.Fatalf("create farmer: %v", err)
	}
	farm := &farmer.Farm{FarmerID: f.ID, Name: "Farm of " + email, SizeAcres: 10}
	if err := gdb.Omit("Farmer").Create(farm).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}
	return f, farm
}
