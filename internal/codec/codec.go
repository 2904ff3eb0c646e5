// Package codec translates between flat integer actions and the
// phase-specific structured actions of the high/low trading game. Every
// conversion is an exact bijection over the phase's legal range.
//
// The codec assumes a trusted caller: an out-of-range raw action, a
// conversion during the terminal phase, or an unrecognized phase is an
// integrator bug and panics rather than returning an error.
package codec

import (
	"fmt"

	"github.com/nlyu1/highlow-exchange/internal/domain"
)

// ActionCodec converts raw integer actions to structured actions and back
// for a fixed game configuration.
type ActionCodec struct {
	cfg domain.GameConfig
}

// New creates an ActionCodec for the given (already validated) config.
func New(cfg domain.GameConfig) *ActionCodec {
	return &ActionCodec{cfg: cfg}
}

// PhaseOf returns the game phase at the given move index.
func (c *ActionCodec) PhaseOf(move int) domain.GamePhase {
	switch {
	case move < 0:
		panic(fmt.Sprintf("codec: invalid move index %d", move))
	case move < 2:
		return domain.PhaseChanceValue
	case move == 2:
		return domain.PhaseChanceHighLow
	case move == 3:
		return domain.PhaseChancePermutation
	case move < c.cfg.NumChanceMoves():
		return domain.PhaseCustomerSize
	case move < c.cfg.MaxGameLength():
		return domain.PhasePlayerTrading
	default:
		return domain.PhaseTerminal
	}
}

// ValidRange returns the inclusive [min, max] legal raw action range for
// the given phase.
func (c *ActionCodec) ValidRange(phase domain.GamePhase) (int, int) {
	switch phase {
	case domain.PhaseChanceValue:
		return 0, c.cfg.MaxContractValue - 1
	case domain.PhaseChanceHighLow:
		return 0, 1
	case domain.PhaseChancePermutation:
		return 0, Factorial(c.cfg.NumPlayers) - 1
	case domain.PhaseCustomerSize:
		return 0, 2 * c.cfg.CustomerMaxSize
	case domain.PhasePlayerTrading:
		sizes := c.cfg.MaxContractsPerTrade + 1
		prices := c.cfg.MaxContractValue
		return 0, sizes*sizes*prices*prices - 1
	case domain.PhaseTerminal:
		panic("codec: no action range in terminal phase")
	}
	panic(fmt.Sprintf("codec: unhandled phase %q in ValidRange", phase))
}

// NumDistinctActions returns the size of the game's global discrete action
// space, which the trading phase's range bounds.
func (c *ActionCodec) NumDistinctActions() int {
	_, max := c.ValidRange(domain.PhasePlayerTrading)
	return max + 1
}

// MaxChanceOutcomes returns one more than the largest raw action any
// chance phase can produce.
func (c *ActionCodec) MaxChanceOutcomes() int {
	out := 0
	for _, phase := range []domain.GamePhase{
		domain.PhaseChanceValue,
		domain.PhaseChanceHighLow,
		domain.PhaseChancePermutation,
		domain.PhaseCustomerSize,
	} {
		if _, max := c.ValidRange(phase); max+1 > out {
			out = max + 1
		}
	}
	return out + 1
}

// Decode converts a raw action to its structured form for the given phase.
func (c *ActionCodec) Decode(phase domain.GamePhase, raw int) domain.Action {
	min, max := c.ValidRange(phase)
	if raw < min || raw > max {
		panic(fmt.Sprintf("codec: raw action %d outside [%d, %d] for phase %q", raw, min, max, phase))
	}

	switch phase {
	case domain.PhaseChanceValue:
		return domain.ContractValueAction{Value: raw + 1}

	case domain.PhaseChanceHighLow:
		return domain.HighLowAction{IsHigh: raw == 1}

	case domain.PhaseChancePermutation:
		perm := NthPermutation(raw, c.cfg.NumPlayers)
		roles := make([]domain.PlayerRole, c.cfg.NumPlayers)
		for i, slot := range perm {
			switch {
			case slot == 0 || slot == 1:
				roles[i] = domain.RoleValueCheater
			case slot == 2:
				roles[i] = domain.RoleHighLowCheater
			default:
				roles[i] = domain.RoleCustomer
			}
		}
		return domain.PermutationAction{Roles: roles, Permutation: perm}

	case domain.PhaseCustomerSize:
		// Zero is skipped: raw maps onto negative sizes first, then the
		// positive sizes shifted up by one.
		size := raw - c.cfg.CustomerMaxSize
		if size >= 0 {
			size++
		}
		return domain.CustomerSizeAction{Size: size}

	case domain.PhasePlayerTrading:
		// Mixed radix, most to least significant:
		// bid_size, ask_size, bid_price-1, ask_price-1.
		v := c.cfg.MaxContractValue
		rolling := raw
		bidSizeDenom := (c.cfg.MaxContractsPerTrade + 1) * v * v
		bidSize := rolling / bidSizeDenom
		rolling %= bidSizeDenom
		askSize := rolling / (v * v)
		rolling %= v * v
		bidPrice := rolling/v + 1
		askPrice := rolling%v + 1
		return domain.QuoteAction{
			BidSize:  bidSize,
			BidPrice: bidPrice,
			AskSize:  askSize,
			AskPrice: askPrice,
		}
	}
	panic(fmt.Sprintf("codec: unhandled phase %q in Decode", phase))
}

// DecodeAt decodes a raw action using the phase of the given move index.
func (c *ActionCodec) DecodeAt(move, raw int) domain.Action {
	return c.Decode(c.PhaseOf(move), raw)
}

// Encode converts a structured action back to its raw form, the exact
// algebraic inverse of Decode. The action's variant must match the phase.
func (c *ActionCodec) Encode(phase domain.GamePhase, action domain.Action) int {
	switch phase {
	case domain.PhaseChanceValue:
		return mustAction[domain.ContractValueAction](phase, action).Value - 1

	case domain.PhaseChanceHighLow:
		if mustAction[domain.HighLowAction](phase, action).IsHigh {
			return 1
		}
		return 0

	case domain.PhaseChancePermutation:
		return PermutationRank(mustAction[domain.PermutationAction](phase, action).Permutation)

	case domain.PhaseCustomerSize:
		size := mustAction[domain.CustomerSizeAction](phase, action).Size
		if size > 0 {
			size--
		}
		return size + c.cfg.CustomerMaxSize

	case domain.PhasePlayerTrading:
		q := mustAction[domain.QuoteAction](phase, action)
		v := c.cfg.MaxContractValue
		return (q.AskPrice - 1) +
			(q.BidPrice-1)*v +
			q.AskSize*v*v +
			q.BidSize*(c.cfg.MaxContractsPerTrade+1)*v*v

	case domain.PhaseTerminal:
		panic("codec: no action conversion in terminal phase")
	}
	panic(fmt.Sprintf("codec: unhandled phase %q in Encode", phase))
}

func mustAction[T domain.Action](phase domain.GamePhase, action domain.Action) T {
	a, ok := action.(T)
	if !ok {
		panic(fmt.Sprintf("codec: action %T does not match phase %q", action, phase))
	}
	return a
}
