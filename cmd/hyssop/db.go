package main

import (
	"database/sql"
	"strings"
	"time"

	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"

	// Drivers register with database/sql for their DSN schemes
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// driverForDSN picks the database/sql driver from the DSN shape.
// postgres:// and mysql:// URLs use the matching driver; anything else is
// treated as a SQLite file path.
func driverForDSN(dsn string) (driver, connStr string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql", strings.TrimPrefix(dsn, "mysql://")
	default:
		return "sqlite", dsn
	}
}

// queryRows runs the query and returns each row as a column-name map.
func queryRows(dsn, query string) ([]map[string]any, *herrors.RenderError) {
	driver, connStr := driverForDSN(dsn)

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, herrors.New("DB-0001", map[string]any{
			"Driver":  driver,
			"GoError": err.Error(),
		})
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		return nil, herrors.New("DB-0002", map[string]any{
			"GoError": err.Error(),
		})
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, herrors.New("DB-0002", map[string]any{
			"GoError": err.Error(),
		})
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, herrors.New("DB-0003", map[string]any{
				"GoError": err.Error(),
			})
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeDBValue(values[i])
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, herrors.New("DB-0002", map[string]any{
			"GoError": err.Error(),
		})
	}

	return results, nil
}

// normalizeDBValue converts driver-specific scan results to the types the
// renderer dispatches on.
func normalizeDBValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val
	default:
		return v
	}
}
