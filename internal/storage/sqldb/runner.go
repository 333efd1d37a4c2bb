package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fieldworks/matchbot/pkg/log"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const maxResultRows = 200

// Runner executes generated SQL against the tournament database. Only a
// single SELECT statement is ever allowed through; everything else is
// refused before touching the database.
type Runner struct {
	db           *sql.DB
	dialect      string
	queryTimeout time.Duration
}

func NewRunner(ctx context.Context, driver, dsn string, queryTimeout time.Duration) (*Runner, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open tournament database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping tournament database: %w", err)
	}

	log.FromCtx(ctx).Info().Str("driver", driver).Msg("connected to tournament database")

	return &Runner{
		db:           db,
		dialect:      driver,
		queryTimeout: queryTimeout,
	}, nil
}

func (r *Runner) Dialect() string {
	return r.dialect
}

func (r *Runner) Close() error {
	return r.db.Close()
}

func (r *Runner) ListTables(ctx context.Context) ([]string, error) {
	var query string
	switch r.dialect {
	case "sqlite3":
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	case "mysql":
		query = `SHOW TABLES`
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", r.dialect)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Schema renders CREATE-TABLE-level DDL for the given tables, used as
// grounding context for SQL generation.
func (r *Runner) Schema(ctx context.Context, tables []string) (string, error) {
	var b strings.Builder
	for _, table := range tables {
		ddl, err := r.tableDDL(ctx, table)
		if err != nil {
			return "", err
		}
		b.WriteString(ddl)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func (r *Runner) tableDDL(ctx context.Context, table string) (string, error) {
	switch r.dialect {
	case "sqlite3":
		var ddl string
		query := `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`
		if err := r.db.QueryRowContext(ctx, query, table).Scan(&ddl); err != nil {
			return "", fmt.Errorf("failed to read schema for %s: %w", table, err)
		}
		return ddl, nil
	case "mysql":
		var name, ddl string
		query := fmt.Sprintf("SHOW CREATE TABLE `%s`", table)
		if err := r.db.QueryRowContext(ctx, query).Scan(&name, &ddl); err != nil {
			return "", fmt.Errorf("failed to read schema for %s: %w", table, err)
		}
		return ddl, nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s", r.dialect)
	}
}

// ExecuteReadOnly runs a single SELECT statement under the query timeout
// and renders the result set as pipe-separated text, capped at
// maxResultRows rows.
func (r *Runner) ExecuteReadOnly(ctx context.Context, query string) (string, error) {
	if err := checkReadOnly(query); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return renderRows(rows)
}

// checkReadOnly refuses anything that is not exactly one SELECT statement.
// The LLM validator runs before this, but the database boundary does not
// trust it.
func checkReadOnly(query string) error {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if trimmed == "" {
		return fmt.Errorf("empty query")
	}
	if strings.Contains(trimmed, ";") {
		return fmt.Errorf("multiple statements are not allowed")
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("only SELECT queries are allowed")
	}
	return nil
}

func renderRows(rows *sql.Rows) (string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("failed to read columns: %w", err)
	}

	var b strings.Builder
	b.WriteString(strings.Join(columns, " | "))
	b.WriteString("\n")

	values := make([]sql.NullString, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if count >= maxResultRows {
			b.WriteString("... (truncated)\n")
			break
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return "", fmt.Errorf("failed to scan row: %w", err)
		}

		fields := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				fields[i] = v.String
			} else {
				fields[i] = "NULL"
			}
		}
		b.WriteString(strings.Join(fields, " | "))
		b.WriteString("\n")
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if count == 0 {
		return "", nil
	}
	return strings.TrimSpace(b.String()), nil
}
