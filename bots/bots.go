// Package bots provides synthetic order sources for driving an exchange:
// the random trader from the demo and a simple spread quoter, run together
// under a supervisor.
package bots

import (
	"context"

	"matchbox/engine"
	"matchbox/exchange"
)

// Bot represents an order source that can be run under a supervisor.
type Bot interface {
	Start(ctx context.Context, client MarketClient)
}

// MarketClient abstracts the surface bots need from the exchange.
type MarketClient interface {
	Submit(ctx context.Context, order engine.Order) ([]engine.Trade, error)
	Book(ctx context.Context) (engine.BookSnapshot, error)
	Stats() exchange.Stats
}
