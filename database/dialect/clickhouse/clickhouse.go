// Package clickhouse registers the "clickhouse" connection for the "database.connection" config entry.
package clickhouse

import (
	"gorm.io/driver/clickhouse"
	"goyave.dev/formrules/database"
)

func init() {
	database.RegisterDialect("clickhouse", "clickhouse://{username}:{password}@{host}:{port}/{name}?{options}", clickhouse.Open)
}
