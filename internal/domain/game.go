package domain

import "fmt"

// GamePhase identifies which kind of move the game expects at a given
// move index. The timeline is fixed: two contract-value draws, one
// high/low draw, one role permutation draw, one target-size draw per
// customer, then steps_per_player trading rounds, then terminal.
type GamePhase string

const (
	PhaseChanceValue       GamePhase = "chance_value"
	PhaseChanceHighLow     GamePhase = "chance_high_low"
	PhaseChancePermutation GamePhase = "chance_permutation"
	PhaseCustomerSize      GamePhase = "customer_size"
	PhasePlayerTrading     GamePhase = "player_trading"
	PhaseTerminal          GamePhase = "terminal"
)

// PlayerRole is assigned once by the permutation draw and is immutable
// for the rest of the game.
type PlayerRole string

const (
	RoleValueCheater   PlayerRole = "value_cheater"
	RoleHighLowCheater PlayerRole = "high_low_cheater"
	RoleCustomer       PlayerRole = "customer"
)

// Sentinel player ids returned by CurrentPlayer for non-player turns.
const (
	ChancePlayerID   = -1
	TerminalPlayerID = -2
)

// PlayerPosition tracks one player's net contracts and cash. Both fields
// change only as the atomic joint effect of a fill on both counterparties.
type PlayerPosition struct {
	NumContracts int
	CashBalance  int
}

func (p PlayerPosition) String() string {
	return fmt.Sprintf("[%d contracts, %d cash]", p.NumContracts, p.CashBalance)
}

// GameConfig holds the immutable parameters of one game instance.
type GameConfig struct {
	StepsPerPlayer       int
	MaxContractsPerTrade int
	CustomerMaxSize      int
	MaxContractValue     int
	NumPlayers           int
}

// Validate checks that every parameter is in its legal range. Two value
// cheaters and one high/low cheater require at least three players, plus
// at least one customer.
func (c GameConfig) Validate() error {
	if c.StepsPerPlayer < 1 {
		return &ValidationError{Message: "steps_per_player must be >= 1"}
	}
	if c.MaxContractsPerTrade < 1 {
		return &ValidationError{Message: "max_contracts_per_trade must be >= 1"}
	}
	if c.CustomerMaxSize < 1 {
		return &ValidationError{Message: "customer_max_size must be >= 1"}
	}
	if c.MaxContractValue < 1 {
		return &ValidationError{Message: "max_contract_value must be >= 1"}
	}
	if c.NumPlayers < 4 || c.NumPlayers > 10 {
		return &ValidationError{Message: "num_players must be between 4 and 10"}
	}
	return nil
}

// NumCustomers returns the number of players holding the customer role.
func (c GameConfig) NumCustomers() int {
	return c.NumPlayers - 3
}

// NumChanceMoves returns the total number of chance moves at the start of
// the game: two values, high/low, permutation, one size per customer.
func (c GameConfig) NumChanceMoves() int {
	return 4 + c.NumCustomers()
}

// MaxGameLength returns the total number of moves in a full game.
func (c GameConfig) MaxGameLength() int {
	return c.NumChanceMoves() + c.StepsPerPlayer*c.NumPlayers
}
