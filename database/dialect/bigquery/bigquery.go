// Package bigquery registers the "bigquery" connection for the "database.connection" config entry.
package bigquery

import (
	"gorm.io/driver/bigquery"
	"goyave.dev/formrules/database"
)

func init() {
	// location is optional for BigQuery
	// possible name values = ["{projectID}/{location}/{dataSet}", "{projectID}/{dataSet}"]
	database.RegisterDialect("bigquery", "bigquery://{name}?{options}", bigquery.Open)
}
