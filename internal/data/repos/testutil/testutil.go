package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/inspect-backend/internal/data/db"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	sqliteSeq atomic.Uint64
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database. With TEST_POSTGRES_DSN set it is one shared
// Postgres database (isolate with Tx); otherwise every call gets its own
// in-memory SQLite database with foreign keys enforced.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		pgOnce.Do(func() {
			var err error
			pgDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
				Logger: gormLogger.Default.LogMode(gormLogger.Silent),
			})
			if err != nil {
				pgErr = err
				return
			}
			pgErr = db.AutoMigrateAll(pgDB)
		})
		if pgErr != nil {
			tb.Fatalf("failed to init test db: %v", pgErr)
		}
		return pgDB
	}

	name := fmt.Sprintf("%s_%d", unsafeName.ReplaceAllString(tb.Name(), "_"), sqliteSeq.Add(1))
	gdb, err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), true)
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("failed to migrate sqlite: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// IsPostgres reports whether DB hands out the shared Postgres database.
func IsPostgres() bool {
	return os.Getenv("TEST_POSTGRES_DSN") != ""
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		if err := tx.Rollback().Error; err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) {
			tb.Logf("rollback: %v", err)
		}
	})
	return tx
}

// DBC binds tx to a background context.
func DBC(tx *gorm.DB) dbctx.Context {
	return dbctx.Context{Ctx: context.Background(), Tx: tx}
}
