// Package game implements the multi-phase state machine of the high/low
// trading game: it sequences the chance draws and player quotes, applies
// fills to player positions, and computes settlement payoffs.
//
// A State assumes a trusted caller: actions must be legal for the current
// phase (validate with Codec().ValidRange first), and illegal input panics
// rather than corrupting the game.
package game

import (
	"fmt"

	"github.com/nlyu1/highlow-exchange/internal/codec"
	"github.com/nlyu1/highlow-exchange/internal/domain"
	"github.com/nlyu1/highlow-exchange/internal/engine"
)

// PlayerQuote pairs a submitted quote with the player who submitted it.
type PlayerQuote struct {
	Player int
	Quote  domain.QuoteAction
}

// ChanceOutcome is one possible chance action and its probability.
type ChanceOutcome struct {
	Action int
	Prob   float64
}

// State is one in-progress game. It owns a private matching engine and is
// strictly turn-based: exactly one action is applied at a time in the
// order dictated by CurrentPlayer.
type State struct {
	cfg   domain.GameConfig
	codec *codec.ActionCodec

	contractValues [2]int
	isHighSettle   bool
	roles          []domain.PlayerRole
	permutation    []int
	targets        []int
	positions      []domain.PlayerPosition
	quotes         []PlayerQuote
	fills          []domain.Fill
	market         *engine.Market

	move    int
	history []int
}

// NewState creates a fresh game for the given configuration.
func NewState(cfg domain.GameConfig) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &State{
		cfg:         cfg,
		codec:       codec.New(cfg),
		roles:       make([]domain.PlayerRole, cfg.NumPlayers),
		permutation: make([]int, cfg.NumPlayers),
		targets:     make([]int, cfg.NumPlayers),
		positions:   make([]domain.PlayerPosition, cfg.NumPlayers),
		market:      engine.NewMarket(),
	}
	for i := range s.roles {
		s.roles[i] = domain.RoleCustomer
	}
	return s, nil
}

// Config returns the game's immutable configuration.
func (s *State) Config() domain.GameConfig {
	return s.cfg
}

// Codec returns the game's action codec.
func (s *State) Codec() *codec.ActionCodec {
	return s.codec
}

// MoveNumber returns the number of actions applied so far.
func (s *State) MoveNumber() int {
	return s.move
}

// History returns the raw actions applied so far, oldest first.
func (s *State) History() []int {
	out := make([]int, len(s.history))
	copy(out, s.history)
	return out
}

// CurrentPhase returns the phase of the next action.
func (s *State) CurrentPhase() domain.GamePhase {
	return s.codec.PhaseOf(s.move)
}

// IsTerminal reports whether the game has ended.
func (s *State) IsTerminal() bool {
	return s.move >= s.cfg.MaxGameLength()
}

// IsChanceNode reports whether the next action is a chance draw.
func (s *State) IsChanceNode() bool {
	return !s.IsTerminal() && s.move < s.cfg.NumChanceMoves()
}

// CurrentPlayer returns the id of the player to act, or the chance or
// terminal sentinel.
func (s *State) CurrentPlayer() int {
	if s.IsTerminal() {
		return domain.TerminalPlayerID
	}
	if s.move < s.cfg.NumChanceMoves() {
		return domain.ChancePlayerID
	}
	return (s.move - s.cfg.NumChanceMoves()) % s.cfg.NumPlayers
}

// ChanceOutcomes returns the uniform distribution over the current chance
// phase's legal actions. Panics when the state is not at a chance node.
func (s *State) ChanceOutcomes() []ChanceOutcome {
	if !s.IsChanceNode() {
		panic(fmt.Sprintf("game: ChanceOutcomes at move %d, which is not a chance node", s.move))
	}
	min, max := s.codec.ValidRange(s.CurrentPhase())
	prob := 1.0 / float64(max-min+1)
	outcomes := make([]ChanceOutcome, 0, max-min+1)
	for a := min; a <= max; a++ {
		outcomes = append(outcomes, ChanceOutcome{Action: a, Prob: prob})
	}
	return outcomes
}

// Apply decodes and applies one raw action at the current move. Illegal
// raws and moves past the end of the game panic.
func (s *State) Apply(raw int) {
	action := s.codec.DecodeAt(s.move, raw)

	switch s.move {
	case 0, 1:
		s.contractValues[s.move] = action.(domain.ContractValueAction).Value
	case 2:
		s.isHighSettle = action.(domain.HighLowAction).IsHigh
	case 3:
		perm := action.(domain.PermutationAction)
		copy(s.roles, perm.Roles)
		copy(s.permutation, perm.Permutation)
	default:
		if s.move < s.cfg.NumChanceMoves() {
			// Customer target draws land in permuted order: the chance
			// move at index 4+k binds the player holding role slot 3+k.
			customer := s.playerInRoleSlot(s.move - 1)
			s.targets[customer] = action.(domain.CustomerSizeAction).Size
		} else {
			s.applyQuote(action.(domain.QuoteAction))
		}
	}

	s.history = append(s.history, raw)
	s.move++
}

// playerInRoleSlot returns the player holding the given role slot: the p
// with permutation[p] == slot. Player p's role is derived from
// permutation[p], so this is the inverse of the role assignment.
func (s *State) playerInRoleSlot(slot int) int {
	for p, sl := range s.permutation {
		if sl == slot {
			return p
		}
	}
	panic(fmt.Sprintf("game: no player holds role slot %d", slot))
}

// applyQuote submits both legs of the acting player's quote to the market
// and applies every resulting fill to both counterparties.
func (s *State) applyQuote(q domain.QuoteAction) {
	player := s.CurrentPlayer()
	s.quotes = append(s.quotes, PlayerQuote{Player: player, Quote: q})

	fills := s.market.AddOrder(domain.Order{
		Price: q.BidPrice,
		Size:  q.BidSize,
		TID:   2 * s.move,
		Owner: player,
		Side:  domain.SideBid,
	})
	fills = append(fills, s.market.AddOrder(domain.Order{
		Price: q.AskPrice,
		Size:  q.AskSize,
		TID:   2*s.move + 1,
		Owner: player,
		Side:  domain.SideAsk,
	})...)

	for _, f := range fills {
		notional := f.Price * f.Size
		if f.IsSellQuote {
			// Aggressor bought from a resting seller.
			s.positions[f.AggressorID].NumContracts += f.Size
			s.positions[f.AggressorID].CashBalance -= notional
			s.positions[f.QuoterID].NumContracts -= f.Size
			s.positions[f.QuoterID].CashBalance += notional
		} else {
			// Aggressor sold to a resting buyer.
			s.positions[f.AggressorID].NumContracts -= f.Size
			s.positions[f.AggressorID].CashBalance += notional
			s.positions[f.QuoterID].NumContracts += f.Size
			s.positions[f.QuoterID].CashBalance -= notional
		}
	}
	s.fills = append(s.fills, fills...)
}

// SettlementValue returns the realized contract value: the max of the two
// candidates when settlement is high, else the min. Only defined once the
// value and high/low draws have been applied.
func (s *State) SettlementValue() int {
	if s.move < 3 {
		panic(fmt.Sprintf("game: settlement value requested at move %d, before the high/low draw", s.move))
	}
	if s.isHighSettle {
		if s.contractValues[0] > s.contractValues[1] {
			return s.contractValues[0]
		}
		return s.contractValues[1]
	}
	if s.contractValues[0] < s.contractValues[1] {
		return s.contractValues[0]
	}
	return s.contractValues[1]
}

// Returns computes each player's payoff: cash plus contracts at the
// settlement value, minus |target − contracts| · MaxContractValue for
// players with a non-zero target. The penalty makes the game deliberately
// not zero-sum.
func (s *State) Returns() []float64 {
	settle := s.SettlementValue()
	out := make([]float64, s.cfg.NumPlayers)
	for p := 0; p < s.cfg.NumPlayers; p++ {
		ret := float64(s.positions[p].CashBalance + s.positions[p].NumContracts*settle)
		if s.targets[p] != 0 {
			diff := s.targets[p] - s.positions[p].NumContracts
			if diff < 0 {
				diff = -diff
			}
			ret -= float64(diff * s.cfg.MaxContractValue)
		}
		out[p] = ret
	}
	return out
}

// Undo rewinds the last action by replaying the remaining history prefix
// from scratch. Fills are never reversed individually: a fill may have
// moved a third party's position that later moves depend on.
func (s *State) Undo() error {
	if len(s.history) == 0 {
		return domain.ErrNothingToUndo
	}
	prefix := s.history[:len(s.history)-1]
	fresh, err := NewState(s.cfg)
	if err != nil {
		return err
	}
	for _, raw := range prefix {
		fresh.Apply(raw)
	}
	*s = *fresh
	return nil
}

// Clone returns a deep, independent copy of the state.
func (s *State) Clone() *State {
	c := &State{
		cfg:            s.cfg,
		codec:          s.codec,
		contractValues: s.contractValues,
		isHighSettle:   s.isHighSettle,
		roles:          append([]domain.PlayerRole(nil), s.roles...),
		permutation:    append([]int(nil), s.permutation...),
		targets:        append([]int(nil), s.targets...),
		positions:      append([]domain.PlayerPosition(nil), s.positions...),
		quotes:         append([]PlayerQuote(nil), s.quotes...),
		fills:          append([]domain.Fill(nil), s.fills...),
		market:         s.market.Clone(),
		move:           s.move,
		history:        append([]int(nil), s.history...),
	}
	return c
}

// Roles returns each player's assigned role. All customers until the
// permutation draw has been applied.
func (s *State) Roles() []domain.PlayerRole {
	return append([]domain.PlayerRole(nil), s.roles...)
}

// Targets returns each player's target position; zero means no requirement.
func (s *State) Targets() []int {
	return append([]int(nil), s.targets...)
}

// Positions returns each player's current contracts and cash.
func (s *State) Positions() []domain.PlayerPosition {
	return append([]domain.PlayerPosition(nil), s.positions...)
}

// Quotes returns the full quote log, oldest first.
func (s *State) Quotes() []PlayerQuote {
	return append([]PlayerQuote(nil), s.quotes...)
}

// Fills returns the full fill log, oldest first.
func (s *State) Fills() []domain.Fill {
	return append([]domain.Fill(nil), s.fills...)
}

// RestingOrders returns a player's orders currently resting on the book.
func (s *State) RestingOrders(player int) []domain.Order {
	return s.market.Orders(player)
}

// ActionToString renders one raw action at the given move index as the
// acting player would describe it. Chance draws are attributed to the
// environment rather than a player id.
func (s *State) ActionToString(player, move, raw int) string {
	if player == domain.ChancePlayerID {
		return fmt.Sprintf("Chance: %s", s.codec.DecodeAt(move, raw))
	}
	return fmt.Sprintf("Player %d %s", player, s.codec.DecodeAt(move, raw))
}
