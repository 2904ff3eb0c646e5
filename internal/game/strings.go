package game

import (
	"fmt"
	"strings"

	"github.com/nlyu1/highlow-exchange/internal/domain"
)

// PublicInformationString renders everything every player can see: the
// configuration, the quote and fill logs, positions, and the current book.
func (s *State) PublicInformationString() string {
	var b strings.Builder

	b.WriteString("********** Game Configuration **********\n")
	fmt.Fprintf(&b, "Steps per player: %d\n", s.cfg.StepsPerPlayer)
	fmt.Fprintf(&b, "Max contracts per trade: %d\n", s.cfg.MaxContractsPerTrade)
	fmt.Fprintf(&b, "Customer max size: %d\n", s.cfg.CustomerMaxSize)
	fmt.Fprintf(&b, "Max contract value: %d\n", s.cfg.MaxContractValue)
	fmt.Fprintf(&b, "Number of players: %d\n", s.cfg.NumPlayers)
	b.WriteString("****************************************\n\n")

	b.WriteString("********** Quote & Fills **********\n")
	for _, pq := range s.quotes {
		fmt.Fprintf(&b, "Player %d quote: %s\n", pq.Player, pq.Quote)
	}
	for _, f := range s.fills {
		fmt.Fprintf(&b, "Order fill: %s\n", f)
	}
	b.WriteString("***********************************\n\n")

	b.WriteString("********** Player Positions **********\n")
	for p := 0; p < s.cfg.NumPlayers; p++ {
		fmt.Fprintf(&b, "Player %d position: %s\n", p, s.positions[p])
	}
	b.WriteString("**************************************\n\n")

	b.WriteString("********** Current Market **********\n")
	b.WriteString(s.market.String())
	b.WriteString("\n")
	return b.String()
}

// String renders the full game state including the hidden setup. Intended
// for debugging and host-side logging, not for showing to players.
func (s *State) String() string {
	var b strings.Builder
	b.WriteString("********** Game setup **********\n")
	fmt.Fprintf(&b, "Contract values: %d, %d\n", s.contractValues[0], s.contractValues[1])
	if s.isHighSettle {
		b.WriteString("Contract high settle: High\n")
	} else {
		b.WriteString("Contract high settle: Low\n")
	}
	fmt.Fprintf(&b, "Player permutation: %s\n", domain.PermutationAction{Roles: s.roles, Permutation: s.permutation})
	for p := 0; p < s.cfg.NumPlayers; p++ {
		if s.targets[p] == 0 {
			fmt.Fprintf(&b, "Player %d target position: No requirement\n", p)
		} else {
			fmt.Fprintf(&b, "Player %d target position: %d\n", p, s.targets[p])
		}
	}
	b.WriteString("********************************\n\n")
	b.WriteString(s.PublicInformationString())
	return b.String()
}

// InformationStateString renders the given player's view: their private
// role information followed by the public information. Before the chance
// phases finish, private information is still pending.
func (s *State) InformationStateString(player int) string {
	if player < 0 || player >= s.cfg.NumPlayers {
		panic(fmt.Sprintf("game: information state requested for player %d of %d", player, s.cfg.NumPlayers))
	}

	var b strings.Builder
	b.WriteString("********** Private Information **********\n")

	if s.move >= s.cfg.NumChanceMoves() {
		switch s.roles[player] {
		case domain.RoleValueCheater:
			b.WriteString("My role: ValueCheater\n")
			fmt.Fprintf(&b, "Candidate contract value: %d\n", s.contractValues[s.permutation[player]])
		case domain.RoleHighLowCheater:
			b.WriteString("My role: HighLowCheater\n")
			if s.isHighSettle {
				b.WriteString("Settlement will be: High\n")
			} else {
				b.WriteString("Settlement will be: Low\n")
			}
		case domain.RoleCustomer:
			b.WriteString("My role: Customer\n")
			fmt.Fprintf(&b, "My target position: %d\n", s.targets[player])
		}
		b.WriteString(s.PublicInformationString())
	} else {
		b.WriteString("Private info pending...\n")
	}

	b.WriteString("***************************\n")
	return b.String()
}
