package engine

import "math"

// Book is a continuous double-auction order book for a single instrument.
// It owns two price-ordered level lists and the identity counter for every
// order that passes through it. The book is not safe for concurrent use;
// callers serialize access (the exchange package wraps one Book in a
// single-writer goroutine).
type Book struct {
	bids   levelList
	asks   levelList
	nextID uint64
}

// NewBook returns an empty book. Identities start at 1 and are scoped to
// the instance, so independent books number independently.
func NewBook() *Book {
	return &Book{
		bids:   levelList{desc: true},
		asks:   levelList{},
		nextID: 1,
	}
}

// AddOrder assigns the order a fresh identity, matches it against the
// opposite side to completion, and rests any Limit residual at its own
// price. Trades are returned in execution order. The call cannot fail;
// validating input shape is the gateway's job.
//
// A Market order that outlives the opposite side has its residual
// discarded: with no limit price there is no level for it to rest at.
func (b *Book) AddOrder(order Order) []Trade {
	order.ID = b.nextID
	b.nextID++

	var trades []Trade
	if order.Side == Buy {
		trades = b.matchBuy(&order)
	} else {
		trades = b.matchSell(&order)
	}

	if order.Quantity > 0 && order.Type == Limit {
		resting := order
		if order.Side == Buy {
			b.bids.insert(&resting)
		} else {
			b.asks.insert(&resting)
		}
	}
	return trades
}

func (b *Book) matchBuy(taker *Order) []Trade {
	var trades []Trade
	for taker.Quantity > 0 {
		best := b.asks.best()
		if best == nil {
			break
		}
		// A limit buy crosses only while its price covers the best ask.
		if taker.Type == Limit && comparePrice(taker.Price, best.price) < 0 {
			break
		}
		maker := best.front()
		qty := math.Min(taker.Quantity, maker.Quantity)
		taker.Quantity -= qty
		maker.Quantity -= qty
		trades = append(trades, Trade{
			BuyOrderID:  taker.ID,
			SellOrderID: maker.ID,
			Price:       best.price,
			Quantity:    qty,
		})
		// A partially filled maker stays at the front of its queue and
		// keeps time priority over later arrivals.
		if maker.Quantity == 0 {
			best.popFront()
		}
		if best.empty() {
			b.asks.dropBest()
		}
	}
	return trades
}

func (b *Book) matchSell(taker *Order) []Trade {
	var trades []Trade
	for taker.Quantity > 0 {
		best := b.bids.best()
		if best == nil {
			break
		}
		if taker.Type == Limit && comparePrice(taker.Price, best.price) > 0 {
			break
		}
		maker := best.front()
		qty := math.Min(taker.Quantity, maker.Quantity)
		taker.Quantity -= qty
		maker.Quantity -= qty
		trades = append(trades, Trade{
			BuyOrderID:  maker.ID,
			SellOrderID: taker.ID,
			Price:       best.price,
			Quantity:    qty,
		})
		if maker.Quantity == 0 {
			best.popFront()
		}
		if best.empty() {
			b.bids.dropBest()
		}
	}
	return trades
}

// Snapshot deep-copies both sides, best level first.
func (b *Book) Snapshot() BookSnapshot {
	return BookSnapshot{
		Bids: snapshotSide(&b.bids),
		Asks: snapshotSide(&b.asks),
	}
}

func snapshotSide(ll *levelList) []LevelSnapshot {
	out := make([]LevelSnapshot, 0, len(ll.levels))
	for _, lvl := range ll.levels {
		ls := LevelSnapshot{Price: lvl.price, Orders: make([]Order, len(lvl.orders))}
		for i, o := range lvl.orders {
			ls.Orders[i] = *o
		}
		out = append(out, ls)
	}
	return out
}

// BestBid returns a copy of the oldest order at the highest bid level.
func (b *Book) BestBid() (Order, bool) {
	lvl := b.bids.best()
	if lvl == nil {
		return Order{}, false
	}
	return *lvl.front(), true
}

// BestAsk returns a copy of the oldest order at the lowest ask level.
func (b *Book) BestAsk() (Order, bool) {
	lvl := b.asks.best()
	if lvl == nil {
		return Order{}, false
	}
	return *lvl.front(), true
}

// Depth reports the number of resting orders on one side.
func (b *Book) Depth(side Side) int {
	if side == Buy {
		return b.bids.orderCount()
	}
	return b.asks.orderCount()
}

// Reset drops all resting orders and restarts identity assignment, as if
// the book were newly built.
func (b *Book) Reset() {
	b.bids = levelList{desc: true}
	b.asks = levelList{}
	b.nextID = 1
}
