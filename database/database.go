// Package database opens the GORM connection used by the "unique" and "exists"
// external checks. Drivers are registered by blank-importing a dialect package:
//
//	import _ "goyave.dev/formrules/database/dialect/mysql"
package database

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"goyave.dev/formrules/config"
	"goyave.dev/formrules/slog"
	"goyave.dev/formrules/util/errors"
)

// New create a new connection pool using the "database" settings of the given configuration.
// Queries are logged through the given logger at debug level.
func New(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	driver := cfg.GetString("database.connection")
	if driver == "none" {
		return nil, errors.New(`cannot create DB connection: "database.connection" is set to "none"`)
	}

	dialect, ok := lookupDialect(driver)
	if !ok {
		return nil, errors.Errorf("DB connection %q not supported (registered: %s), forgotten dialect import?", driver, strings.Join(Dialects(), ", "))
	}

	return NewFromDialector(cfg, logger, dialect.initializer(dialect.buildDSN(cfg)))
}

// NewFromDialector create a new connection pool from a GORM dialector, using the
// pool settings of the given configuration. Used in tests to open in-memory databases.
func NewFromDialector(cfg *config.Config, logger *slog.Logger, dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewLogger(logger),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, errors.New(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.New(err)
	}
	sqlDB.SetMaxOpenConns(cfg.GetInt("database.maxOpenConnections"))
	sqlDB.SetMaxIdleConns(cfg.GetInt("database.maxIdleConnections"))
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.GetInt("database.maxLifetime")) * time.Second)
	return db, nil
}
