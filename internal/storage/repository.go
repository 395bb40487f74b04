package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ventas/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const fetchRowsBase = `
SELECT r.fecha,
       CAST(r.importe AS TEXT),
       CAST(r.cantidad AS TEXT),
       COALESCE(t.nombre, ''),
       COALESCE(CAST(r.id_tipo AS TEXT), ''),
       COALESCE(m.nombre, ''),
       COALESCE(c.nombre, ''),
       COALESCE(c.codigo, ''),
       COALESCE(v.nombre, ''),
       COALESCE(ca.nombre, '')
FROM registro_ventas_general r
LEFT JOIN tipo t ON t.id = r.id_tipo
LEFT JOIN marca m ON m.id = r.id_marca
LEFT JOIN cliente c ON c.id = r.id_cliente
LEFT JOIN vendedor v ON v.id = r.id_vendedor
LEFT JOIN cliente_cadena cc ON cc.id_cliente = r.id_cliente
LEFT JOIN cadena ca ON ca.id = cc.id_cadena`

// FetchRows returns the raw sale lines matching the filter. Amounts and
// quantities come back as their textual SQLite representation; parsing
// happens downstream in one place.
func (r *SQLiteRepository) FetchRows(ctx context.Context, f core.Filter) ([]core.TransactionRow, error) {
	var conds []string
	var args []any

	if f.Type != "" {
		conds = append(conds, "t.nombre = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		conds = append(conds, "CAST(r.id_tipo AS TEXT) = ?")
		args = append(args, f.Category)
	}
	if len(f.Brands) > 0 {
		conds = append(conds, "m.nombre IN ("+placeholders(len(f.Brands))+")")
		args = appendStrings(args, f.Brands)
	}
	if len(f.Chains) > 0 {
		conds = append(conds, "ca.nombre IN ("+placeholders(len(f.Chains))+")")
		args = appendStrings(args, f.Chains)
	}
	if len(f.Customers) > 0 {
		conds = append(conds, "c.nombre IN ("+placeholders(len(f.Customers))+")")
		args = appendStrings(args, f.Customers)
	}
	if len(f.CustomerCodes) > 0 {
		conds = append(conds, "c.codigo IN ("+placeholders(len(f.CustomerCodes))+")")
		args = appendStrings(args, f.CustomerCodes)
	}
	if len(f.Sellers) > 0 {
		conds = append(conds, "v.nombre IN ("+placeholders(len(f.Sellers))+")")
		args = appendStrings(args, f.Sellers)
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		// The window is a month-day span so the same range selects the
		// matching stretch of both comparison years.
		conds = append(conds, "strftime('%m-%d', r.fecha) BETWEEN ? AND ?")
		args = append(args, f.From.Format("01-02"), f.To.Format("01-02"))
	}

	query := fetchRowsBase
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY r.fecha"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales rows: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionRow
	for rows.Next() {
		var tr core.TransactionRow
		if err := rows.Scan(
			&tr.Date, &tr.Amount, &tr.Quantity,
			&tr.Type, &tr.CategoryID, &tr.Brand,
			&tr.CustomerName, &tr.CustomerCode, &tr.Seller, &tr.Chain,
		); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales rows: %w", err)
	}

	return out, nil
}

// FilterOptions returns the distinct dimension values present in the
// master tables, for filter pickers.
func (r *SQLiteRepository) FilterOptions(ctx context.Context) (core.Options, error) {
	opts := core.Options{Months: core.MonthNames()}

	queries := []struct {
		dest  *[]string
		query string
	}{
		{&opts.Types, "SELECT nombre FROM tipo ORDER BY id"},
		{&opts.Brands, "SELECT nombre FROM marca ORDER BY nombre"},
		{&opts.Customers, "SELECT DISTINCT nombre FROM cliente ORDER BY nombre"},
		{&opts.CustomerCodes, "SELECT codigo FROM cliente ORDER BY codigo"},
		{&opts.Sellers, "SELECT nombre FROM vendedor ORDER BY nombre"},
		{&opts.Chains, "SELECT nombre FROM cadena ORDER BY nombre"},
	}

	for _, q := range queries {
		values, err := r.queryStrings(ctx, q.query)
		if err != nil {
			return core.Options{}, err
		}
		*q.dest = values
	}

	return opts, nil
}

func (r *SQLiteRepository) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// importTables is the allowlist of import targets with their writable
// columns, in insert order.
var importTables = map[string][]string{
	"tipo":                    {"id", "nombre"},
	"marca":                   {"id", "nombre"},
	"cliente":                 {"id", "codigo", "nombre"},
	"vendedor":                {"id", "nombre"},
	"cadena":                  {"id", "nombre"},
	"cliente_cadena":          {"id_cliente", "id_cadena"},
	"registro_ventas_general": {"fecha", "importe", "cantidad", "id_tipo", "id_marca", "id_cliente", "id_vendedor"},
}

// ReplaceTable replaces a table's contents with the given rows inside one
// transaction. Master tables are truncated; the sales table keeps history
// before the earliest incoming date and is rewritten from there on.
func (r *SQLiteRepository) ReplaceTable(ctx context.Context, table string, columns []string, rows [][]string) error {
	allowed, ok := importTables[table]
	if !ok {
		return fmt.Errorf("table %q is not importable", table)
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		allowedSet[c] = true
	}
	fechaIdx := -1
	for i, c := range columns {
		if !allowedSet[c] {
			return fmt.Errorf("column %q is not importable into %q", c, table)
		}
		if c == "fecha" {
			fechaIdx = i
		}
	}
	for _, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("row width %d does not match %d columns", len(row), len(columns))
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import transaction: %w", err)
	}
	defer tx.Rollback()

	if table == "registro_ventas_general" {
		if fechaIdx < 0 {
			return fmt.Errorf("sales import requires a fecha column")
		}
		minFecha := ""
		for _, row := range rows {
			if minFecha == "" || row[fechaIdx] < minFecha {
				minFecha = row[fechaIdx]
			}
		}
		if minFecha != "" {
			if _, err := tx.ExecContext(ctx, "DELETE FROM registro_ventas_general WHERE fecha >= ?", minFecha); err != nil {
				return fmt.Errorf("clear sales from %s: %w", minFecha, err)
			}
		}
	} else {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	if len(rows) > 0 {
		insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(columns, ", "), placeholders(len(columns)))
		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			return fmt.Errorf("prepare insert into %s: %w", table, err)
		}
		defer stmt.Close()

		for _, row := range rows {
			args := make([]any, len(row))
			for i, v := range row {
				args[i] = v
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert into %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import transaction: %w", err)
	}

	slog.InfoContext(ctx, "Table contents replaced",
		"table", table,
		"rows", len(rows))

	return nil
}

// MasterIDs returns name to id for a master table, used to validate
// referential integrity before an import is committed.
func (r *SQLiteRepository) MasterIDs(ctx context.Context, table string) (map[string]int64, error) {
	switch table {
	case "tipo", "marca", "cliente", "vendedor", "cadena":
	default:
		return nil, fmt.Errorf("table %q is not a master table", table)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT nombre, id FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s ids: %w", table, err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var nombre string
		var id int64
		if err := rows.Scan(&nombre, &id); err != nil {
			return nil, fmt.Errorf("scan %s id: %w", table, err)
		}
		ids[nombre] = id
	}
	return ids, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func appendStrings(args []any, values []string) []any {
	for _, v := range values {
		args = append(args, v)
	}
	return args
}
