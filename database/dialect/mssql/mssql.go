// Package mssql registers the "mssql" connection for the "database.connection" config entry.
package mssql

import (
	"gorm.io/driver/sqlserver"
	"goyave.dev/formrules/database"
)

func init() {
	database.RegisterDialect("mssql", "sqlserver://{username}:{password}@{host}:{port}?database={name}&{options}", sqlserver.Open)
}
