package memory

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"ventas/internal/core"
	"ventas/internal/source"
)

type Store struct {
	mu   sync.Mutex
	rows []core.TransactionRow
}

func New(rows []core.TransactionRow) *Store {
	return &Store{rows: append([]core.TransactionRow(nil), rows...)}
}

// NewFromFiles loads sale lines from seed_ventas.csv under base. When the
// file is missing or unreadable a small built-in sample is used so the
// backend always serves something.
func NewFromFiles(base string) *Store {
	rows := readCSV(filepath.Join(base, "seed_ventas.csv"))
	if len(rows) == 0 {
		rows = sampleRows()
	}
	return New(rows)
}

// FetchRows implements source.RowSource.
func (s *Store) FetchRows(_ context.Context, f core.Filter) ([]core.TransactionRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.TransactionRow
	for _, r := range s.rows {
		if source.Matches(f, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FilterOptions implements source.OptionSource.
func (s *Store) FilterOptions(_ context.Context) (core.Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return source.OptionsFrom(s.rows), nil
}

// Replace swaps the stored rows, used by tests and import tooling.
func (s *Store) Replace(rows []core.TransactionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]core.TransactionRow(nil), rows...)
}

// readCSV reads rows in the wire column order: fecha, importe, cantidad,
// tipo, id_tipo, marca, cliente, codigo, vendedor, cadena.
func readCSV(path string) []core.TransactionRow {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil
	}

	var out []core.TransactionRow
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		out = append(out, rowFrom(rec))
	}
	return out
}

func rowFrom(rec []string) core.TransactionRow {
	get := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	return core.TransactionRow{
		Date:         get(0),
		Amount:       get(1),
		Quantity:     get(2),
		Type:         get(3),
		CategoryID:   get(4),
		Brand:        get(5),
		CustomerName: get(6),
		CustomerCode: get(7),
		Seller:       get(8),
		Chain:        get(9),
	}
}

func sampleRows() []core.TransactionRow {
	return []core.TransactionRow{
		{Date: "2025-01-15", Amount: "1200", Quantity: "40", Type: "Stock", CategoryID: "1", Brand: "Alfa", CustomerName: "Cliente Uno", CustomerCode: "C01", Seller: "Norte"},
		{Date: "2025-02-20", Amount: "800", Quantity: "25", Type: "Stock", CategoryID: "1", Brand: "Beta", CustomerName: "Cliente Dos", CustomerCode: "C02", Seller: "Sur", Chain: "Cadena Uno"},
		{Date: "2026-01-18", Amount: "1500", Quantity: "48", Type: "Stock", CategoryID: "1", Brand: "Alfa", CustomerName: "Cliente Uno", CustomerCode: "C01", Seller: "Norte"},
		{Date: "2026-02-22", Amount: "700", Quantity: "20", Type: "Pre-Venta", CategoryID: "2", Brand: "Beta", CustomerName: "Cliente Dos", CustomerCode: "C02", Seller: "Sur", Chain: "Cadena Uno"},
	}
}
