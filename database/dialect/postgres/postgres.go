// Package postgres registers the "postgres" connection for the "database.connection" config entry.
package postgres

import (
	"gorm.io/driver/postgres"
	"goyave.dev/formrules/database"
)

func init() {
	database.RegisterDialect("postgres", "host={host} port={port} user={username} dbname={name} password={password} {options}", postgres.Open)
}
