package database

import (
	"context"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"goyave.dev/formrules/config"
	"goyave.dev/formrules/slog"
	"goyave.dev/formrules/util/errors"
	"goyave.dev/formrules/validation"
)

// Hook names
const (
	HookUnique = "unique"
	HookExists = "exists"
)

// Hooks returns the database checks by name, ready to be used by
// declarative forms. The read timeout is taken from the
// "database.defaultReadQueryTimeout" config entry (in milliseconds).
func Hooks(db *gorm.DB, cfg *config.Config, logger *slog.Logger) map[string]validation.ExternalFunc {
	timeout := time.Duration(cfg.GetInt("database.defaultReadQueryTimeout")) * time.Millisecond
	return map[string]validation.ExternalFunc{
		HookUnique: Unique(db, timeout, logger),
		HookExists: Exists(db, timeout, logger),
	}
}

// Unique returns a check passing if no record in the table has the value in the column.
// It expects two arguments: the table name and the column name.
//
// For lists, none of the items must exist. Database errors are logged and fail the check.
func Unique(db *gorm.DB, timeout time.Duration, logger *slog.Logger) validation.ExternalFunc {
	return func(value any, args ...any) bool {
		count, _, err := countMatching(db, timeout, value, args)
		if err != nil {
			logger.Error(err)
			return false
		}
		return count == 0
	}
}

// Exists returns a check passing if a record in the table has the value in the column.
// It expects two arguments: the table name and the column name.
//
// For lists, every distinct item must exist. Database errors are logged and fail the check.
func Exists(db *gorm.DB, timeout time.Duration, logger *slog.Logger) validation.ExternalFunc {
	return func(value any, args ...any) bool {
		count, expected, err := countMatching(db, timeout, value, args)
		if err != nil {
			logger.Error(err)
			return false
		}
		return count >= int64(expected)
	}
}

func countMatching(db *gorm.DB, timeout time.Duration, value any, args []any) (int64, int, error) {
	if len(args) != 2 {
		return 0, 0, errors.Errorf("database check expects 2 arguments (table, column), %d given", len(args))
	}
	table, okTable := args[0].(string)
	column, okColumn := args[1].(string)
	if !okTable || !okColumn || table == "" || column == "" {
		return 0, 0, errors.Errorf("database check expects string arguments (table, column), got %v", args)
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	query := db.WithContext(ctx).Table(table)
	expected := 1
	switch v := value.(type) {
	case []string:
		items := lo.Uniq(v)
		expected = len(items)
		query = query.Distinct(column).Where(clause.IN{Column: clause.Column{Name: column}, Values: lo.ToAnySlice(items)})
	default:
		query = query.Where(clause.Eq{Column: clause.Column{Name: column}, Value: v})
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, 0, errors.New(err)
	}
	return count, expected, nil
}
