package engine

// Side represents the direction of an order.
type Side int

const (
	// Buy indicates a bid order.
	Buy Side = iota
	// Sell indicates an ask order.
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType represents the execution style for an order.
type OrderType int

const (
	// Limit orders execute at their price or better and rest otherwise.
	Limit OrderType = iota
	// Market orders consume available liquidity at any price.
	Market
)

func (t OrderType) String() string {
	if t == Limit {
		return "limit"
	}
	return "market"
}

// Order describes a request to trade. Callers leave ID zero; the book
// assigns it exactly once on submission. Price is meaningful only for Limit
// orders. Quantity is the remaining open quantity and is decremented in
// place as fills occur; an order leaves the book the moment it reaches zero.
type Order struct {
	ID       uint64
	Side     Side
	Type     OrderType
	Price    float64
	Quantity float64
}

// Trade captures a single crossing between two orders. Its price is always
// the resting side's level price, so the aggressor keeps any price
// improvement. Trades are never mutated after creation.
type Trade struct {
	BuyOrderID  uint64
	SellOrderID uint64
	Price       float64
	Quantity    float64
}

// LevelSnapshot is one price level's resting queue, oldest order first.
type LevelSnapshot struct {
	Price  float64
	Orders []Order
}

// BookSnapshot is a deep copy of both sides of the book, best level first
// (highest bid, lowest ask).
type BookSnapshot struct {
	Bids []LevelSnapshot
	Asks []LevelSnapshot
}
