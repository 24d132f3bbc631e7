package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"goyave.dev/formrules/config"
	"goyave.dev/formrules/slog"
)

func openDummy(_ string) gorm.Dialector {
	return nil
}

func TestNewDatabase(t *testing.T) {
	RegisterDialect("dummy", "host={host} port={port} user={username} dbname={name} password={password} {options}", openDummy)
	RegisterDialect("sqlite3_test", "file:{name}?{options}", sqlite.Open)
	t.Cleanup(func() {
		mu.Lock()
		delete(dialects, "dummy")
		delete(dialects, "sqlite3_test")
		mu.Unlock()
	})

	t.Run("RegisterDialect_already_exists", func(t *testing.T) {
		assert.Panics(t, func() {
			RegisterDialect("dummy", "", openDummy)
		})
	})

	t.Run("RegisterDialect_unknown_placeholder", func(t *testing.T) {
		assert.Panics(t, func() {
			RegisterDialect("typo", "{hostname}:{port}", openDummy)
		})
		assert.NotContains(t, Dialects(), "typo")
	})

	t.Run("Dialects", func(t *testing.T) {
		assert.Equal(t, []string{"dummy", "sqlite3_test"}, Dialects())
	})

	t.Run("buildDSN_repeated_placeholder", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("database.host", "db")
		cfg.Set("database.port", 3306)
		d := dialect{openDummy, "{host}:{port},{host}:{port}"}
		assert.Equal(t, "db:3306,db:3306", d.buildDSN(cfg))
	})

	t.Run("buildDSN", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("database.host", "localhost")
		cfg.Set("database.port", 5432)
		cfg.Set("database.name", "forms")
		cfg.Set("database.username", "user")
		cfg.Set("database.password", "secret")
		cfg.Set("database.options", "sslmode=disable")

		assert.Equal(t, "host=localhost port=5432 user=user dbname=forms password=secret sslmode=disable", dialects["dummy"].buildDSN(cfg))
	})

	t.Run("New_sqlite", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("database.connection", "sqlite3_test")
		cfg.Set("database.name", "new_sqlite_test")
		cfg.Set("database.options", "mode=memory")
		cfg.Set("database.maxOpenConnections", 1)

		db, err := New(cfg, slog.Discard())
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
		assert.IsType(t, &Logger{}, db.Config.Logger)
		assert.True(t, db.Config.SkipDefaultTransaction)
		assert.NoError(t, sqlDB.Ping())
		assert.NoError(t, sqlDB.Close())
	})

	t.Run("New_none", func(t *testing.T) {
		db, err := New(config.LoadDefault(), slog.Discard())
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("New_unknown_dialect", func(t *testing.T) {
		cfg := config.LoadDefault()
		cfg.Set("database.connection", "postgres")
		db, err := New(cfg, slog.Discard())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"postgres" not supported (registered: dummy, sqlite3_test)`)
		assert.Nil(t, db)
	})
}
