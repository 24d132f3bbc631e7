// Package sqlite registers the "sqlite3" connection for the "database.connection" config entry.
package sqlite

import (
	"gorm.io/driver/sqlite"
	"goyave.dev/formrules/database"
)

func init() {
	database.RegisterDialect("sqlite3", "file:{name}?{options}", sqlite.Open)
}
