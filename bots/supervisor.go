package bots

import (
	"context"
	"time"

	"go.uber.org/zap"

	"matchbox/exchange"
)

// Supervisor runs a swarm of bots against one exchange and periodically
// reports the exchange's aggregate stats.
type Supervisor struct {
	bots   []Bot
	client *Client
	logger *zap.Logger
}

// NewSupervisor builds a default swarm: two independent random traders and
// a spread quoter sharing one rate-limited client.
func NewSupervisor(ex *exchange.Exchange, ordersPerSec float64, logger *zap.Logger) *Supervisor {
	seed := time.Now().UnixNano()
	return &Supervisor{
		bots: []Bot{
			NewRandomTrader(seed),
			NewRandomTrader(seed + 1),
			NewSpreadQuoter(),
		},
		client: NewClient(ex, ordersPerSec, 1),
		logger: logger,
	}
}

// Start launches all bots and stats reporting until the context is
// canceled.
func (s *Supervisor) Start(ctx context.Context) {
	for _, bot := range s.bots {
		b := bot
		go b.Start(ctx, s.client)
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := s.client.Stats()
			s.logger.Info("flow",
				zap.Int("trades", stats.TotalTrades),
				zap.Float64("volume", stats.TotalVolume),
				zap.Float64("buy_notional", stats.BuyNotional),
				zap.Float64("sell_notional", stats.SellNotional),
			)
		}
	}
}
