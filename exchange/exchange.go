// Package exchange fronts a single engine.Book with a serializing worker
// goroutine. Matching a submission and appending its trades to the shared
// log happen inside the worker as one unit of work, so concurrent callers
// always observe a trade log whose order equals matching order.
package exchange

import "matchbox/engine"

type requestType int

const (
	requestSubmit requestType = iota
	requestSnapshot
	requestTrades
	requestStats
	requestReset
	requestStop
)

type request struct {
	typ      requestType
	order    engine.Order
	trades   chan []engine.Trade
	snapshot chan engine.BookSnapshot
	stats    chan Stats
	done     chan struct{}
}

// Stats aggregates the complete trade log. BuyNotional accumulates
// -price*quantity per trade (buyer cash outflow) and SellNotional the
// positive mirror. It is recomputed from scratch on every query, never
// cached or maintained incrementally.
type Stats struct {
	TotalTrades  int     `json:"totalTrades"`
	TotalVolume  float64 `json:"totalVolume"`
	BuyNotional  float64 `json:"buyNotional"`
	SellNotional float64 `json:"sellNotional"`
}

// Exchange owns the book and the append-only trade log.
type Exchange struct {
	book  *engine.Book
	log   []engine.Trade
	reqCh chan request
	feed  chan engine.Trade
}

// New builds an exchange around a fresh book and launches its worker loop.
func New() *Exchange {
	e := &Exchange{
		book:  engine.NewBook(),
		reqCh: make(chan request),
		feed:  make(chan engine.Trade, 64),
	}
	go e.run()
	return e
}

// Submit places the order and returns the trades it produced, in execution
// order. Submit never fails; malformed input is the gateway's problem.
func (e *Exchange) Submit(order engine.Order) []engine.Trade {
	resp := make(chan []engine.Trade, 1)
	e.reqCh <- request{typ: requestSubmit, order: order, trades: resp}
	return <-resp
}

// BookSnapshot returns a deep copy of both sides, best level first.
func (e *Exchange) BookSnapshot() engine.BookSnapshot {
	resp := make(chan engine.BookSnapshot, 1)
	e.reqCh <- request{typ: requestSnapshot, snapshot: resp}
	return <-resp
}

// TradeLog returns a copy of the complete accumulated log. The log is
// append-only and never trimmed.
func (e *Exchange) TradeLog() []engine.Trade {
	resp := make(chan []engine.Trade, 1)
	e.reqCh <- request{typ: requestTrades, trades: resp}
	return <-resp
}

// Stats recomputes the aggregate view from the full trade log.
func (e *Exchange) Stats() Stats {
	resp := make(chan Stats, 1)
	e.reqCh <- request{typ: requestStats, stats: resp}
	return <-resp
}

// Reset clears the book, the trade log, and identity assignment.
func (e *Exchange) Reset() {
	done := make(chan struct{})
	e.reqCh <- request{typ: requestReset, done: done}
	<-done
}

// Stop gracefully terminates the worker loop.
func (e *Exchange) Stop() {
	e.reqCh <- request{typ: requestStop}
}

// Feed exposes a best-effort stream of executed trades for broadcasting.
// Slow consumers lose trades; the authoritative history is TradeLog.
func (e *Exchange) Feed() <-chan engine.Trade {
	return e.feed
}

func (e *Exchange) run() {
	for req := range e.reqCh {
		switch req.typ {
		case requestSubmit:
			trades := e.book.AddOrder(req.order)
			e.log = append(e.log, trades...)
			ordersSubmitted.Inc()
			for _, trade := range trades {
				tradesExecuted.Inc()
				volumeMatched.Add(trade.Quantity)
				select {
				case e.feed <- trade:
				default:
					feedDropped.Inc()
				}
			}
			req.trades <- trades
		case requestSnapshot:
			req.snapshot <- e.book.Snapshot()
		case requestTrades:
			out := make([]engine.Trade, len(e.log))
			copy(out, e.log)
			req.trades <- out
		case requestStats:
			req.stats <- computeStats(e.log)
		case requestReset:
			e.book.Reset()
			e.log = nil
			close(req.done)
		case requestStop:
			close(e.feed)
			close(e.reqCh)
			return
		}
	}
}

func computeStats(log []engine.Trade) Stats {
	var s Stats
	for _, trade := range log {
		s.TotalTrades++
		s.TotalVolume += trade.Quantity
		s.BuyNotional -= trade.Price * trade.Quantity
		s.SellNotional += trade.Price * trade.Quantity
	}
	return s
}
