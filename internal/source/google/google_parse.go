package google

import (
	"fmt"
	"strings"

	"ventas/internal/core"
)

// Sheet column order: fecha, importe, cantidad, tipo, id_tipo, marca,
// cliente, codigo, vendedor, cadena.
func parseValues(values [][]any) []core.TransactionRow {
	var out []core.TransactionRow
	for _, row := range values {
		cols := toStrings(row)
		if len(cols) < 2 || cols[0] == "" {
			continue
		}
		get := func(i int) string {
			if i < len(cols) {
				return cols[i]
			}
			return ""
		}
		out = append(out, core.TransactionRow{
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
		})
	}
	return out
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
