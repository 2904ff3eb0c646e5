package game

import (
	"fmt"
	"math"

	"github.com/nlyu1/highlow-exchange/internal/domain"
)

// TensorSize returns the length of the observation/information tensor:
// 5 config scalars, 3 one-hot role entries, 2 player-id entries, 1 private
// scalar, 2 entries per player position, and 6 entries per possible quote.
func (s *State) TensorSize() int {
	return 11 + 2*s.cfg.NumPlayers + 6*s.cfg.StepsPerPlayer*s.cfg.NumPlayers
}

// InformationStateTensor encodes everything the given player has observed
// as a fixed-width float vector. The tensor is sized for the maximum game
// length; trailing quote slots stay zero until the quotes exist. Role and
// private entries stay zero until every chance move has been applied.
//
// Observations equal information states here: quotes and fills are public,
// so the growing quote log preserves the Markov property.
func (s *State) InformationStateTensor(player int) []float32 {
	if player < 0 || player >= s.cfg.NumPlayers {
		panic(fmt.Sprintf("game: tensor requested for player %d of %d", player, s.cfg.NumPlayers))
	}

	values := make([]float32, s.TensorSize())
	offset := 0

	// Game setup.
	values[offset] = float32(s.cfg.StepsPerPlayer)
	values[offset+1] = float32(s.cfg.MaxContractsPerTrade)
	values[offset+2] = float32(s.cfg.CustomerMaxSize)
	values[offset+3] = float32(s.cfg.MaxContractValue)
	values[offset+4] = float32(s.cfg.NumPlayers)
	offset += 5

	chanceDone := s.move >= s.cfg.NumChanceMoves()

	// One-hot role.
	if chanceDone {
		switch s.roles[player] {
		case domain.RoleValueCheater:
			values[offset] = 1
		case domain.RoleHighLowCheater:
			values[offset+1] = 1
		case domain.RoleCustomer:
			values[offset+2] = 1
		}
	}
	offset += 3

	// Player id as a point on the unit circle.
	angle := 2 * math.Pi * float64(player) / float64(s.cfg.NumPlayers)
	values[offset] = float32(math.Sin(angle))
	values[offset+1] = float32(math.Cos(angle))
	offset += 2

	// Role-dependent private scalar.
	if chanceDone {
		values[offset] = s.privateScalar(player)
	}
	offset++

	// Public positions.
	for p := 0; p < s.cfg.NumPlayers; p++ {
		values[offset] = float32(s.positions[p].NumContracts)
		values[offset+1] = float32(s.positions[p].CashBalance)
		offset += 2
	}

	// Quote log, oldest first.
	for _, pq := range s.quotes {
		values[offset] = float32(pq.Quote.BidPrice)
		values[offset+1] = float32(pq.Quote.AskPrice)
		values[offset+2] = float32(pq.Quote.BidSize)
		values[offset+3] = float32(pq.Quote.AskSize)
		pAngle := 2 * math.Pi * float64(pq.Player) / float64(s.cfg.NumPlayers)
		values[offset+4] = float32(math.Sin(pAngle))
		values[offset+5] = float32(math.Cos(pAngle))
		offset += 6
	}

	return values
}

// ObservationTensor is identical to InformationStateTensor.
func (s *State) ObservationTensor(player int) []float32 {
	return s.InformationStateTensor(player)
}

// privateScalar returns the player's role-dependent private observation:
// the known candidate contract value for a value cheater, the settlement
// direction (+1 high, −1 low) for the high/low cheater, the target
// position for a customer. A value cheater's role slot permutation[player]
// is 0 or 1 and names the candidate value they know.
func (s *State) privateScalar(player int) float32 {
	switch s.roles[player] {
	case domain.RoleValueCheater:
		return float32(s.contractValues[s.permutation[player]])
	case domain.RoleHighLowCheater:
		if s.isHighSettle {
			return 1
		}
		return -1
	default:
		return float32(s.targets[player])
	}
}
