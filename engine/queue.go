package engine

import "math"

// comparePrice imposes a total order on float64 price keys. NaN compares
// equal to itself and above every real number, so a malformed price still
// lands in one stable bucket instead of corrupting level ordering.
func comparePrice(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	default:
		return -1
	}
}

// level holds the FIFO queue of resting orders sharing one price.
// orders[0] is the oldest and matches first.
type level struct {
	price  float64
	orders []*Order
}

func (l *level) push(o *Order) { l.orders = append(l.orders, o) }

func (l *level) front() *Order { return l.orders[0] }

func (l *level) popFront() {
	copy(l.orders, l.orders[1:])
	l.orders[len(l.orders)-1] = nil
	l.orders = l.orders[:len(l.orders)-1]
}

func (l *level) empty() bool { return len(l.orders) == 0 }

// levelList keeps price levels sorted best-first: descending for bids,
// ascending for asks.
type levelList struct {
	levels []*level
	desc   bool
}

func (ll *levelList) best() *level {
	if len(ll.levels) == 0 {
		return nil
	}
	return ll.levels[0]
}

// insert queues the order at its price level, creating the level at the
// sorted position when absent. Equal prices share a single level, so FIFO
// within it is arrival order.
func (ll *levelList) insert(o *Order) {
	lo, hi := 0, len(ll.levels)
	for lo < hi {
		mid := (lo + hi) >> 1
		c := comparePrice(ll.levels[mid].price, o.Price)
		if ll.desc {
			c = -c
		}
		if c < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(ll.levels) && comparePrice(ll.levels[lo].price, o.Price) == 0 {
		ll.levels[lo].push(o)
		return
	}
	lvl := &level{price: o.Price}
	lvl.push(o)
	ll.levels = append(ll.levels, nil)
	copy(ll.levels[lo+1:], ll.levels[lo:])
	ll.levels[lo] = lvl
}

// dropBest removes the best level. Callers only invoke it once the level's
// queue has drained; an empty level must never remain in the list.
func (ll *levelList) dropBest() {
	copy(ll.levels, ll.levels[1:])
	ll.levels[len(ll.levels)-1] = nil
	ll.levels = ll.levels[:len(ll.levels)-1]
}

func (ll *levelList) orderCount() int {
	n := 0
	for _, lvl := range ll.levels {
		n += len(lvl.orders)
	}
	return n
}
