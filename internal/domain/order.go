package domain

import "fmt"

// Side indicates whether an order is a bid (buy) or ask (sell).
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// Order is one resting leg of a player quote. TID is a strictly increasing
// sequence id assigned by the state machine; two orders on the book never
// share a TID. An order stays on the book until fully filled.
type Order struct {
	Price int
	Size  int
	TID   int
	Owner int
	Side  Side
}

func (o Order) String() string {
	return fmt.Sprintf("sz %d @ px %d   id=%d @ t=%d", o.Size, o.Price, o.Owner, o.TID)
}

// Fill records one matched cross between a resting quote and a later
// arriving aggressor order. Fills are append-only and never mutated.
//
// IsSellQuote is true when the resting (non-aggressor) order was the ask,
// i.e. the aggressor bought from a resting seller. Trades always execute
// at the resting order's price.
type Fill struct {
	Price        int
	Size         int
	AggressorTID int
	AggressorID  int
	QuoteSize    int
	QuoterID     int
	QuoteTID     int
	IsSellQuote  bool
}

func (f Fill) String() string {
	return fmt.Sprintf("sz %d @ px %d on t=%d. User %d crossed with user %d's quote sz %d @ px %d",
		f.Size, f.Price, f.AggressorTID, f.AggressorID, f.QuoterID, f.QuoteSize, f.Price)
}
