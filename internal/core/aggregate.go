package core

import "github.com/shopspring/decimal"

// sums accumulates the four numeric fields of normalized rows. Summary rows
// at every hierarchy boundary are re-derived from these raw sums, never from
// formatted display strings.
type sums struct {
	ObjectiveAmount   decimal.Decimal
	ActualAmount      decimal.Decimal
	ObjectiveQuantity decimal.Decimal
	ActualQuantity    decimal.Decimal
}

func (s *sums) add(r Row) {
	s.ObjectiveAmount = s.ObjectiveAmount.Add(r.ObjectiveAmount)
	s.ActualAmount = s.ActualAmount.Add(r.ActualAmount)
	s.ObjectiveQuantity = s.ObjectiveQuantity.Add(r.ObjectiveQuantity)
	s.ActualQuantity = s.ActualQuantity.Add(r.ActualQuantity)
}

func (s *sums) merge(o sums) {
	s.ObjectiveAmount = s.ObjectiveAmount.Add(o.ObjectiveAmount)
	s.ActualAmount = s.ActualAmount.Add(o.ActualAmount)
	s.ObjectiveQuantity = s.ObjectiveQuantity.Add(o.ObjectiveQuantity)
	s.ActualQuantity = s.ActualQuantity.Add(o.ActualQuantity)
}

func (s sums) amountVariance() float64 {
	return VariancePct(s.ObjectiveAmount, s.ActualAmount)
}

func (s sums) quantityVariance() float64 {
	return VariancePct(s.ObjectiveQuantity, s.ActualQuantity)
}

// group is one aggregate node: the sums of every row sharing a key.
type group[K comparable] struct {
	Key K
	sums
}

// aggregate groups rows by the key function and sums the numeric fields per
// distinct key. Nodes come back in first-seen order; every input row is
// accounted for exactly once. Callers impose their own ordering afterward.
func aggregate[K comparable](rows []Row, key func(Row) K) []group[K] {
	index := make(map[K]int, len(rows))
	groups := make([]group[K], 0, len(rows))
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group[K]{Key: k})
		}
		groups[i].add(r)
	}
	return groups
}

// regroup re-aggregates already-aggregated nodes under a coarser key,
// merging sums in first-seen order. The drill-down tables use it to derive
// the intermediate hierarchy levels from the leaf aggregation.
func regroup[K1, K2 comparable](groups []group[K1], key func(K1) K2) []group[K2] {
	index := make(map[K2]int, len(groups))
	out := make([]group[K2], 0, len(groups))
	for _, g := range groups {
		k := key(g.Key)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, group[K2]{Key: k})
		}
		out[i].merge(g.sums)
	}
	return out
}

// Dimension-key tuples for the report views.
type (
	brandDetailKey struct {
		Brand      string
		Identifier string
		Seller     string
	}

	sellerDetailKey struct {
		Seller     string
		Identifier string
		Brand      string
		Month      int
	}
)
