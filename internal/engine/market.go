// Package engine implements the continuous double-auction matching engine:
// a two-sided order book with immediate crossing and price-time priority.
//
// The engine is single-threaded by design. It is owned by exactly one game
// state and touched only while a move is being applied, so it carries no
// locking of its own.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/btree"

	"github.com/nlyu1/highlow-exchange/internal/domain"
)

// Market is a two-sided order book. The bid side is ordered by
// (price desc, tid asc), the ask side by (price asc, tid asc), so the best
// order on each side is the tree minimum. The book never holds a
// zero-size order.
type Market struct {
	bids *btree.BTreeG[domain.Order]
	asks *btree.BTreeG[domain.Order]
}

// NewMarket creates an empty market.
func NewMarket() *Market {
	return &Market{
		bids: newBidTree(),
		asks: newAskTree(),
	}
}

// AddOrder places an order on the book and runs the matching loop,
// returning every fill the new order produced. Zero-size orders are
// ignored and return no fills.
//
// The caller must assign strictly increasing tids across all orders ever
// submitted; matching two orders with equal tids panics.
func (m *Market) AddOrder(order domain.Order) []domain.Fill {
	if order.Size == 0 {
		return nil
	}
	if order.Size < 0 {
		panic(fmt.Sprintf("engine: negative order size %d (tid %d)", order.Size, order.TID))
	}
	if order.Side == domain.SideBid {
		m.bids.ReplaceOrInsert(order)
	} else {
		m.asks.ReplaceOrInsert(order)
	}
	return m.match()
}

// match crosses the book while the best bid's price is at or above the
// best ask's price. The order with the larger tid arrived later and is the
// aggressor; the trade executes at the resting order's price for the
// smaller of the two sizes. Any remainder is re-enqueued with its original
// price and tid, preserving its priority.
func (m *Market) match() []domain.Fill {
	var fills []domain.Fill
	for {
		bid, okBid := m.bids.Min()
		ask, okAsk := m.asks.Min()
		if !okBid || !okAsk || bid.Price < ask.Price {
			break
		}

		m.bids.Delete(bid)
		m.asks.Delete(ask)

		if bid.TID == ask.TID {
			panic(fmt.Sprintf("engine: matched orders share tid %d", bid.TID))
		}

		// The resting side is the one with the smaller tid.
		isSellQuote := bid.TID > ask.TID
		resting, aggressor := bid, ask
		if isSellQuote {
			resting, aggressor = ask, bid
		}

		size := bid.Size
		if ask.Size < size {
			size = ask.Size
		}

		fills = append(fills, domain.Fill{
			Price:        resting.Price,
			Size:         size,
			AggressorTID: aggressor.TID,
			AggressorID:  aggressor.Owner,
			QuoteSize:    resting.Size,
			QuoterID:     resting.Owner,
			QuoteTID:     resting.TID,
			IsSellQuote:  isSellQuote,
		})

		if remaining := bid.Size - size; remaining > 0 {
			bid.Size = remaining
			m.bids.ReplaceOrInsert(bid)
		}
		if remaining := ask.Size - size; remaining > 0 {
			ask.Size = remaining
			m.asks.ReplaceOrInsert(ask)
		}
	}
	return fills
}

// Orders returns the given owner's resting orders, bids first, each side
// in book priority order. The book is not mutated.
func (m *Market) Orders(owner int) []domain.Order {
	var out []domain.Order
	collect := func(o domain.Order) bool {
		if o.Owner == owner {
			out = append(out, o)
		}
		return true
	}
	m.bids.Ascend(collect)
	m.asks.Ascend(collect)
	return out
}

// Owners returns the distinct ids of every player with at least one
// resting order, in ascending order.
func (m *Market) Owners() []int {
	seen := make(map[int]bool)
	collect := func(o domain.Order) bool {
		seen[o.Owner] = true
		return true
	}
	m.bids.Ascend(collect)
	m.asks.Ascend(collect)

	out := make([]int, 0, len(seen))
	for owner := range seen {
		out = append(out, owner)
	}
	sort.Ints(out)
	return out
}

// CancelOrders removes all of the owner's resting orders from both sides
// and returns how many were removed. The core game flow never cancels;
// this exists for host-driven inspection and cleanup.
func (m *Market) CancelOrders(owner int) int {
	removed := 0
	for _, tree := range []*btree.BTreeG[domain.Order]{m.bids, m.asks} {
		var doomed []domain.Order
		tree.Ascend(func(o domain.Order) bool {
			if o.Owner == owner {
				doomed = append(doomed, o)
			}
			return true
		})
		for _, o := range doomed {
			tree.Delete(o)
			removed++
		}
	}
	return removed
}

// BidCount returns the number of resting bid orders.
func (m *Market) BidCount() int {
	return m.bids.Len()
}

// AskCount returns the number of resting ask orders.
func (m *Market) AskCount() int {
	return m.asks.Len()
}

// BestBid returns the highest-priority bid, if any.
func (m *Market) BestBid() (domain.Order, bool) {
	return m.bids.Min()
}

// BestAsk returns the highest-priority ask, if any.
func (m *Market) BestAsk() (domain.Order, bool) {
	return m.asks.Min()
}

// Clone returns an independent copy of the market. The underlying trees
// are copy-on-write, so cloning is cheap.
func (m *Market) Clone() *Market {
	return &Market{
		bids: m.bids.Clone(),
		asks: m.asks.Clone(),
	}
}

// String renders the book with each side from highest to lowest price,
// sell orders first.
func (m *Market) String() string {
	var sells []domain.Order
	m.asks.Ascend(func(o domain.Order) bool {
		sells = append(sells, o)
		return true
	})
	// Asks ascend lowest-first; the dump wants highest first.
	for i, j := 0, len(sells)-1; i < j; i, j = i+1, j-1 {
		sells[i], sells[j] = sells[j], sells[i]
	}

	var buys []domain.Order
	m.bids.Ascend(func(o domain.Order) bool {
		buys = append(buys, o)
		return true
	})

	var b strings.Builder
	fmt.Fprintf(&b, "####### %d sell orders #######\n", len(sells))
	for _, o := range sells {
		b.WriteString(o.String())
		b.WriteByte('\n')
	}
	b.WriteString("#############################\n")
	fmt.Fprintf(&b, "####### %d buy orders #######\n", len(buys))
	for _, o := range buys {
		b.WriteString(o.String())
		b.WriteByte('\n')
	}
	b.WriteString("#############################")
	return b.String()
}
