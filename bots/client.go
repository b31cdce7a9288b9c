package bots

import (
	"context"

	"golang.org/x/time/rate"

	"matchbox/engine"
	"matchbox/exchange"
)

// Client wraps an exchange with rate limiting so a bot swarm cannot flood
// the matching worker.
type Client struct {
	ex      *exchange.Exchange
	limiter *rate.Limiter
}

// NewClient builds a client capped at ordersPerSec submissions.
func NewClient(ex *exchange.Exchange, ordersPerSec float64, burst int) *Client {
	return &Client{
		ex:      ex,
		limiter: rate.NewLimiter(rate.Limit(ordersPerSec), burst),
	}
}

// Submit waits for rate-limit headroom and places the order.
func (c *Client) Submit(ctx context.Context, order engine.Order) ([]engine.Trade, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.ex.Submit(order), nil
}

// Book returns the current full-depth snapshot.
func (c *Client) Book(ctx context.Context) (engine.BookSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return engine.BookSnapshot{}, err
	}
	return c.ex.BookSnapshot(), nil
}

// Stats returns the exchange's aggregate trade stats.
func (c *Client) Stats() exchange.Stats {
	return c.ex.Stats()
}
