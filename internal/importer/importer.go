// Package importer loads sales workbooks into the store. One workbook
// carries the master tables and the sales register as separate sheets; an
// import replaces those tables and announces the change over AMQP.
package importer

import (
	"context"
	"fmt"
	"strings"

	"ventas/internal/amqp"
	applog "ventas/internal/log"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Store writes imported tables.
type Store interface {
	ReplaceTable(ctx context.Context, table string, columns []string, rows [][]string) error
	MasterIDs(ctx context.Context, table string) (map[string]int64, error)
}

// Publisher announces imported batches.
type Publisher interface {
	PublishReportRefresh(ctx context.Context, msg *amqp.ReportRefreshMessage) error
}

// importOrder lists the sheets an importable workbook may carry, masters
// before the sales register so referential checks see fresh ids.
var importOrder = []string{
	"tipo",
	"marca",
	"cliente",
	"vendedor",
	"cadena",
	"cliente_cadena",
	"registro_ventas_general",
}

// salesRefs maps the sales register's reference columns to their master
// tables.
var salesRefs = map[string]string{
	"id_tipo":     "tipo",
	"id_marca":    "marca",
	"id_cliente":  "cliente",
	"id_vendedor": "vendedor",
}

type Importer struct {
	store     Store
	publisher Publisher
	logger    *applog.Logger
}

// Summary describes one completed import run.
type Summary struct {
	BatchID string
	Tables  map[string]int
}

func New(store Store, publisher Publisher, logger *applog.Logger) *Importer {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Importer{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentImporter),
	}
}

type sheetData struct {
	columns []string
	rows    [][]string
}

// ImportWorkbook reads an xlsx workbook and replaces every recognized
// table. Sheets are validated before anything is written, so a bad
// workbook leaves the store untouched.
func (i *Importer) ImportWorkbook(ctx context.Context, path string) (*Summary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]sheetData)
	for _, name := range f.GetSheetList() {
		table := strings.ToLower(strings.TrimSpace(name))
		if !isImportable(table) {
			i.logger.WarnContext(ctx, "Skipping unrecognized sheet", "sheet", name)
			continue
		}
		data, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		sheets[table] = data
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no importable sheets")
	}

	if err := i.validateSales(ctx, sheets); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	summary := &Summary{BatchID: batchID, Tables: make(map[string]int)}

	for _, table := range importOrder {
		data, ok := sheets[table]
		if !ok {
			continue
		}
		if err := i.store.ReplaceTable(ctx, table, data.columns, data.rows); err != nil {
			return nil, fmt.Errorf("import %s: %w", table, err)
		}
		summary.Tables[table] = len(data.rows)

		i.logger.InfoContext(ctx, "Imported table",
			applog.FieldOperation, applog.OpImport,
			applog.FieldBatchID, batchID,
			applog.FieldTable, table,
			applog.FieldRowCount, len(data.rows))

		if i.publisher != nil {
			msg := amqp.NewReportRefreshMessage(batchID, table, len(data.rows), minDate(data))
			if err := i.publisher.PublishReportRefresh(ctx, msg); err != nil {
				i.logger.WarnContext(ctx, "Refresh publish failed, reports may be stale",
					applog.FieldBatchID, batchID,
					applog.FieldTable, table,
					applog.FieldError, err.Error())
			}
		}
	}

	return summary, nil
}

// readSheet returns the header row as column names and the remaining rows
// with reference and numeric cells sanitized.
func readSheet(f *excelize.File, name string) (sheetData, error) {
	raw, err := f.GetRows(name)
	if err != nil {
		return sheetData{}, err
	}
	if len(raw) == 0 {
		return sheetData{}, fmt.Errorf("sheet is empty")
	}

	columns := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows [][]string
	for _, rec := range raw[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, len(columns))
		for c := range columns {
			v := ""
			if c < len(rec) {
				v = strings.TrimSpace(rec[c])
			}
			row[c] = sanitizeCell(columns[c], v)
		}
		rows = append(rows, row)
	}

	return sheetData{columns: columns, rows: rows}, nil
}

// sanitizeCell cleans one cell based on its column. Spreadsheet tools tend
// to render integer ids as floats ("12.0") and empty cells as NaN/None.
func sanitizeCell(column, v string) string {
	switch {
	case column == "id" || strings.HasPrefix(column, "id_"):
		if v == "nan" || v == "NaN" || v == "None" {
			return ""
		}
		return strings.TrimSuffix(v, ".0")
	case column == "importe" || column == "cantidad":
		return strings.ReplaceAll(v, ",", ".")
	default:
		return v
	}
}

// validateSales checks every reference column of the sales sheet against
// the master ids, preferring masters carried by the same workbook over the
// ones already stored.
func (i *Importer) validateSales(ctx context.Context, sheets map[string]sheetData) error {
	sales, ok := sheets["registro_ventas_general"]
	if !ok {
		return nil
	}

	var problems []string
	for col, master := range salesRefs {
		idx := columnIndex(sales.columns, col)
		if idx < 0 {
			continue
		}

		valid, err := i.masterIDSet(ctx, sheets, master)
		if err != nil {
			return fmt.Errorf("load %s ids: %w", master, err)
		}

		for n, row := range sales.rows {
			v := row[idx]
			if v == "" {
				continue
			}
			if !valid[v] {
				problems = append(problems, fmt.Sprintf("row %d: %s=%s not in %s", n+2, col, v, master))
			}
		}
	}

	if len(problems) > 0 {
		if len(problems) > 10 {
			problems = append(problems[:10], fmt.Sprintf("... and %d more", len(problems)-10))
		}
		return fmt.Errorf("sales rows reference unknown masters:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

func (i *Importer) masterIDSet(ctx context.Context, sheets map[string]sheetData, master string) (map[string]bool, error) {
	valid := make(map[string]bool)

	if data, ok := sheets[master]; ok {
		idx := columnIndex(data.columns, "id")
		if idx < 0 {
			return nil, fmt.Errorf("sheet %s has no id column", master)
		}
		for _, row := range data.rows {
			if row[idx] != "" {
				valid[row[idx]] = true
			}
		}
		return valid, nil
	}

	ids, err := i.store.MasterIDs(ctx, master)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		valid[fmt.Sprintf("%d", id)] = true
	}
	return valid, nil
}

func minDate(data sheetData) string {
	idx := columnIndex(data.columns, "fecha")
	if idx < 0 {
		return ""
	}
	min := ""
	for _, row := range data.rows {
		if row[idx] != "" && (min == "" || row[idx] < min) {
			min = row[idx]
		}
	}
	return min
}

func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func isImportable(table string) bool {
	for _, t := range importOrder {
		if t == table {
			return true
		}
	}
	return false
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
