package engine

import (
	"github.com/google/btree"

	"github.com/nlyu1/highlow-exchange/internal/domain"
)

// bidLess defines ordering for the bid side: price descending, then tid
// ascending. Min() returns the best bid (highest price, earliest order).
func bidLess(a, b domain.Order) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.TID < b.TID
}

// askLess defines ordering for the ask side: price ascending, then tid
// ascending. Min() returns the best ask (lowest price, earliest order).
func askLess(a, b domain.Order) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.TID < b.TID
}

const btreeDegree = 8

// newBidTree creates an empty bid side.
func newBidTree() *btree.BTreeG[domain.Order] {
	return btree.NewG[domain.Order](btreeDegree, bidLess)
}

// newAskTree creates an empty ask side.
func newAskTree() *btree.BTreeG[domain.Order] {
	return btree.NewG[domain.Order](btreeDegree, askLess)
}
