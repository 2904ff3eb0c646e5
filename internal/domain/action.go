package domain

import (
	"fmt"
	"strings"
)

// Action is the structured form of a raw integer action. Exactly one
// variant is valid per game phase, and within a phase every raw integer
// in the legal range maps to exactly one variant and back.
type Action interface {
	isAction()
	String() string
}

// ContractValueAction is one of the two chance-drawn candidate contract
// values, in [1, MaxContractValue].
type ContractValueAction struct {
	Value int
}

// HighLowAction is the chance-drawn settlement direction: the contract
// settles at the higher candidate value when IsHigh is true, else the lower.
type HighLowAction struct {
	IsHigh bool
}

// PermutationAction assigns roles to players. Permutation[i] is the player
// holding role slot i: slots 0 and 1 are the value cheaters, slot 2 the
// high/low cheater, all remaining slots customers. Roles[p] is player p's
// assigned role.
type PermutationAction struct {
	Roles       []PlayerRole
	Permutation []int
}

// CustomerSizeAction is one customer's chance-drawn target position,
// in [-CustomerMaxSize, CustomerMaxSize] excluding zero.
type CustomerSizeAction struct {
	Size int
}

// QuoteAction is a player's per-turn two-sided quote. Sizes are in
// [0, MaxContractsPerTrade]; prices in [1, MaxContractValue]. A zero size
// makes the corresponding leg a no-op.
type QuoteAction struct {
	BidSize  int
	BidPrice int
	AskSize  int
	AskPrice int
}

func (ContractValueAction) isAction() {}
func (HighLowAction) isAction()       {}
func (PermutationAction) isAction()   {}
func (CustomerSizeAction) isAction()  {}
func (QuoteAction) isAction()         {}

func (a ContractValueAction) String() string {
	return fmt.Sprintf("Environment settles one piece of contract value to %d", a.Value)
}

func (a HighLowAction) String() string {
	if a.IsHigh {
		return "Environment chooses high contract settlement"
	}
	return "Environment chooses low contract settlement"
}

func (a PermutationAction) String() string {
	var b strings.Builder
	b.WriteString("Player roles: ")
	for i, role := range a.Roles {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "P%d=%s", i, roleLabel(role))
	}
	return b.String()
}

func (a CustomerSizeAction) String() string {
	return fmt.Sprintf("Customer target position: %d", a.Size)
}

func (a QuoteAction) String() string {
	return fmt.Sprintf("Price %d @ %d | Size %d x %d", a.BidPrice, a.AskPrice, a.BidSize, a.AskSize)
}

func roleLabel(role PlayerRole) string {
	switch role {
	case RoleValueCheater:
		return "ValueCheater"
	case RoleHighLowCheater:
		return "HighLowCheater"
	case RoleCustomer:
		return "Customer"
	}
	return "Unknown"
}
