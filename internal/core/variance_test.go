package core

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestVariancePct(t *testing.T) {
	cases := []struct {
		objective string
		actual    string
		want      float64
	}{
		{"0", "100", 0},    // zero-guard
		{"-5", "100", 0},   // negative objective also guarded
		{"100", "100", 0},  // on target
		{"120", "150", 25}, // growth
		{"50", "0", -100},  // shortfall
		{"200", "100", -50},
	}
	for i, tc := range cases {
		obj := decimal.RequireFromString(tc.objective)
		act := decimal.RequireFromString(tc.actual)
		got := VariancePct(obj, act)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("case %d: VariancePct(%s, %s) = %v, want %v", i, tc.objective, tc.actual, got, tc.want)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("case %d: variance must never be NaN or Inf, got %v", i, got)
		}
	}
}

func TestAggregateGroupsAndOrder(t *testing.T) {
	rows := []Row{
		{Identifier: "B", ActualAmount: decimal.NewFromInt(10)},
		{Identifier: "A", ActualAmount: decimal.NewFromInt(5)},
		{Identifier: "B", ActualAmount: decimal.NewFromInt(7)},
	}
	groups := aggregate(rows, func(r Row) string { return r.Identifier })
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "B" || groups[1].Key != "A" {
		t.Fatalf("expected first-seen order [B A], got [%s %s]", groups[0].Key, groups[1].Key)
	}
	if !groups[0].ActualAmount.Equal(decimal.NewFromInt(17)) {
		t.Errorf("group B actual = %s, want 17", groups[0].ActualAmount)
	}

	// Every input row is accounted for exactly once.
	total := sumGroups(groups)
	if !total.ActualAmount.Equal(decimal.NewFromInt(22)) {
		t.Errorf("total actual = %s, want 22", total.ActualAmount)
	}
}

func TestRegroupMergesSums(t *testing.T) {
	rows := []Row{
		{Seller: "S1", Brand: "M1", ActualAmount: decimal.NewFromInt(1)},
		{Seller: "S1", Brand: "M2", ActualAmount: decimal.NewFromInt(2)},
		{Seller: "S2", Brand: "M1", ActualAmount: decimal.NewFromInt(4)},
	}
	type key struct{ Seller, Brand string }
	leaves := aggregate(rows, func(r Row) key { return key{r.Seller, r.Brand} })
	bySeller := regroup(leaves, func(k key) string { return k.Seller })
	if len(bySeller) != 2 {
		t.Fatalf("expected 2 sellers, got %d", len(bySeller))
	}
	if !bySeller[0].ActualAmount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("seller S1 actual = %s, want 3", bySeller[0].ActualAmount)
	}
}
