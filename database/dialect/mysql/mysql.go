// Package mysql registers the "mysql" connection for the "database.connection" config entry.
package mysql

import (
	"gorm.io/driver/mysql"
	"goyave.dev/formrules/database"
)

func init() {
	database.RegisterDialect("mysql", "{username}:{password}@({host}:{port})/{name}?{options}", mysql.Open)
}
