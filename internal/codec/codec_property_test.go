package codec

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/nlyu1/highlow-exchange/internal/domain"
)

// genConfig generates a valid game configuration with small enough bounds
// to keep action ranges manageable.
func genConfig() *rapid.Generator[domain.GameConfig] {
	return rapid.Custom(func(t *rapid.T) domain.GameConfig {
		return domain.GameConfig{
			StepsPerPlayer:       rapid.IntRange(1, 10).Draw(t, "stepsPerPlayer"),
			MaxContractsPerTrade: rapid.IntRange(1, 6).Draw(t, "maxContractsPerTrade"),
			CustomerMaxSize:      rapid.IntRange(1, 6).Draw(t, "customerMaxSize"),
			MaxContractValue:     rapid.IntRange(1, 30).Draw(t, "maxContractValue"),
			NumPlayers:           rapid.IntRange(4, 10).Draw(t, "numPlayers"),
		}
	})
}

var codecPhases = []domain.GamePhase{
	domain.PhaseChanceValue,
	domain.PhaseChanceHighLow,
	domain.PhaseChancePermutation,
	domain.PhaseCustomerSize,
	domain.PhasePlayerTrading,
}

// Every raw action in every phase's legal range must survive a
// decode/encode round trip exactly.
func TestProperty_CodecRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := genConfig().Draw(t, "config")
		c := New(cfg)

		phase := rapid.SampledFrom(codecPhases).Draw(t, "phase")
		min, max := c.ValidRange(phase)
		raw := rapid.IntRange(min, max).Draw(t, "raw")

		action := c.Decode(phase, raw)
		if back := c.Encode(phase, action); back != raw {
			t.Fatalf("phase %q raw %d decoded to %v, re-encoded to %d", phase, raw, action, back)
		}
	})
}

// Decoded quotes always respect the documented bounds: sizes in
// [0, MaxContractsPerTrade], prices in [1, MaxContractValue].
func TestProperty_QuoteBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := genConfig().Draw(t, "config")
		c := New(cfg)

		_, max := c.ValidRange(domain.PhasePlayerTrading)
		raw := rapid.IntRange(0, max).Draw(t, "raw")
		q := c.Decode(domain.PhasePlayerTrading, raw).(domain.QuoteAction)

		if q.BidSize < 0 || q.BidSize > cfg.MaxContractsPerTrade {
			t.Fatalf("bid size %d outside [0, %d]", q.BidSize, cfg.MaxContractsPerTrade)
		}
		if q.AskSize < 0 || q.AskSize > cfg.MaxContractsPerTrade {
			t.Fatalf("ask size %d outside [0, %d]", q.AskSize, cfg.MaxContractsPerTrade)
		}
		if q.BidPrice < 1 || q.BidPrice > cfg.MaxContractValue {
			t.Fatalf("bid price %d outside [1, %d]", q.BidPrice, cfg.MaxContractValue)
		}
		if q.AskPrice < 1 || q.AskPrice > cfg.MaxContractValue {
			t.Fatalf("ask price %d outside [1, %d]", q.AskPrice, cfg.MaxContractValue)
		}
	})
}

// Customer sizes never decode to zero, and distinct raws decode to
// distinct sizes (injectivity over the full range).
func TestProperty_CustomerSizeInjectiveNonZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := genConfig().Draw(t, "config")
		c := New(cfg)

		_, max := c.ValidRange(domain.PhaseCustomerSize)
		seen := make(map[int]int)
		for raw := 0; raw <= max; raw++ {
			a := c.Decode(domain.PhaseCustomerSize, raw).(domain.CustomerSizeAction)
			if a.Size == 0 {
				t.Fatalf("raw %d decoded to zero size", raw)
			}
			if prev, dup := seen[a.Size]; dup {
				t.Fatalf("raws %d and %d both decode to size %d", prev, raw, a.Size)
			}
			seen[a.Size] = raw
		}
	})
}

// nth_permutation(permutation_rank(p)) == p for random permutations.
func TestProperty_PermutationInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "n")
		perm := rapid.Permutation(identity(n)).Draw(t, "perm")

		rank := PermutationRank(perm)
		if back := NthPermutation(rank, n); !equalInts(back, perm) {
			t.Fatalf("perm %v ranked %d decoded back to %v", perm, rank, back)
		}
	})
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
