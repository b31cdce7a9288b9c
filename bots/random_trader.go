package bots

import (
	"context"
	"math/rand"
	"time"

	"matchbox/engine"
)

// RandomTrader generates the demo order flow: a coin-flip side, limit
// prices clustered around a base, and an occasional market order.
type RandomTrader struct {
	Interval   time.Duration
	BasePrice  float64
	PriceRange float64 // limit prices land in BasePrice ± PriceRange
	MinQty     float64
	MaxQty     float64
	LimitRatio float64 // fraction of orders sent as Limit
	rand       *rand.Rand
}

func NewRandomTrader(seed int64) *RandomTrader {
	return &RandomTrader{
		Interval:   200 * time.Millisecond,
		BasePrice:  100,
		PriceRange: 2,
		MinQty:     0.5,
		MaxQty:     2,
		LimitRatio: 0.7,
		rand:       rand.New(rand.NewSource(seed)),
	}
}

func (b *RandomTrader) Start(ctx context.Context, client MarketClient) {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := client.Submit(ctx, b.Next()); err != nil {
				return
			}
		}
	}
}

// Next generates one order. Exposed so the demo CLI can drive the same
// distribution synchronously.
func (b *RandomTrader) Next() engine.Order {
	order := engine.Order{
		Quantity: b.MinQty + b.rand.Float64()*(b.MaxQty-b.MinQty),
	}
	if b.rand.Intn(2) == 0 {
		order.Side = engine.Buy
	} else {
		order.Side = engine.Sell
	}
	if b.rand.Float64() < b.LimitRatio {
		order.Type = engine.Limit
		order.Price = b.BasePrice - b.PriceRange + b.rand.Float64()*2*b.PriceRange
	} else {
		order.Type = engine.Market
	}
	return order
}
