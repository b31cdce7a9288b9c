package bots

import (
	"context"
	"math"
	"time"

	"matchbox/engine"
)

// SpreadQuoter posts a paired bid and ask around the observed mid whenever
// the mid has moved by more than its threshold. With no cancellation in the
// engine, stale quotes simply rest until the market comes back to them.
type SpreadQuoter struct {
	Interval  time.Duration
	Offset    float64 // distance from mid for each quote
	Threshold float64 // mid move required before re-quoting
	Quantity  float64
	Anchor    float64 // mid used while the book is still empty
	lastMid   float64
}

func NewSpreadQuoter() *SpreadQuoter {
	return &SpreadQuoter{
		Interval:  300 * time.Millisecond,
		Offset:    0.5,
		Threshold: 0.25,
		Quantity:  1,
		Anchor:    100,
	}
}

func (b *SpreadQuoter) Start(ctx context.Context, client MarketClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !b.quote(ctx, client) {
				return
			}
		}
	}
}

func (b *SpreadQuoter) quote(ctx context.Context, client MarketClient) bool {
	book, err := client.Book(ctx)
	if err != nil {
		return false
	}
	mid := midPrice(book)
	if mid <= 0 {
		mid = b.Anchor
	}
	if b.lastMid != 0 && math.Abs(mid-b.lastMid) < b.Threshold {
		return true
	}
	b.lastMid = mid

	bid := engine.Order{Side: engine.Buy, Type: engine.Limit, Price: mid - b.Offset, Quantity: b.Quantity}
	ask := engine.Order{Side: engine.Sell, Type: engine.Limit, Price: mid + b.Offset, Quantity: b.Quantity}
	if _, err := client.Submit(ctx, bid); err != nil {
		return false
	}
	if _, err := client.Submit(ctx, ask); err != nil {
		return false
	}
	return true
}

func midPrice(book engine.BookSnapshot) float64 {
	var bid, ask float64
	if len(book.Bids) > 0 {
		bid = book.Bids[0].Price
	}
	if len(book.Asks) > 0 {
		ask = book.Asks[0].Price
	}

	switch {
	case bid > 0 && ask > 0:
		return (bid + ask) / 2
	case bid > 0:
		return bid
	case ask > 0:
		return ask
	default:
		return 0
	}
}
