package engine

import (
	"math"
	"testing"
)

func TestComparePriceTotalOrder(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		a, b float64
		want int
	}{
		{1, 2, -1},
		{2, 1, 1},
		{1.5, 1.5, 0},
		{-1, 0, -1},
		{nan, nan, 0},
		{nan, math.MaxFloat64, 1},
		{math.Inf(1), nan, -1},
		{math.Inf(-1), -1e308, -1},
	}
	for _, c := range cases {
		if got := comparePrice(c.a, c.b); got != c.want {
			t.Fatalf("comparePrice(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestNaNPricesShareOneLevel(t *testing.T) {
	b := NewBook()
	_ = b.AddOrder(Order{Side: Sell, Type: Limit, Price: math.NaN(), Quantity: 1})
	_ = b.AddOrder(Order{Side: Sell, Type: Limit, Price: math.NaN(), Quantity: 1})
	_ = b.AddOrder(Order{Side: Sell, Type: Limit, Price: 100, Quantity: 1})

	snap := b.Snapshot()
	if len(snap.Asks) != 2 {
		t.Fatalf("expected NaN orders bucketed into one level, got %d levels", len(snap.Asks))
	}
	// NaN sorts above every real price, so 100 must be the best ask.
	if snap.Asks[0].Price != 100 {
		t.Fatalf("NaN level must sort worst on the ask side, best=%v", snap.Asks[0].Price)
	}
	if len(snap.Asks[1].Orders) != 2 {
		t.Fatalf("expected 2 orders at the NaN level, got %d", len(snap.Asks[1].Orders))
	}
}

func TestLevelListInsertOrdering(t *testing.T) {
	asks := levelList{}
	for _, p := range []float64{103, 101, 102, 101} {
		o := &Order{Price: p, Quantity: 1}
		asks.insert(o)
	}
	if len(asks.levels) != 3 {
		t.Fatalf("expected 3 ask levels, got %d", len(asks.levels))
	}
	for i, want := range []float64{101, 102, 103} {
		if asks.levels[i].price != want {
			t.Fatalf("ask level %d = %v, want %v", i, asks.levels[i].price, want)
		}
	}
	if len(asks.levels[0].orders) != 2 {
		t.Fatalf("equal prices must share a level")
	}

	bids := levelList{desc: true}
	for _, p := range []float64{101, 103, 102} {
		bids.insert(&Order{Price: p, Quantity: 1})
	}
	for i, want := range []float64{103, 102, 101} {
		if bids.levels[i].price != want {
			t.Fatalf("bid level %d = %v, want %v", i, bids.levels[i].price, want)
		}
	}
}
