package codec

import "fmt"

// Factorial returns n! for small n. Player counts are capped at 10, so
// the result always fits in an int.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// NthPermutation returns the permutation of [0, n) with the given
// lexicographic rank, decoded via its Lehmer code. rank must be in
// [0, n!). O(n²), which is fine for n <= 10.
func NthPermutation(rank, n int) []int {
	if n < 0 {
		panic(fmt.Sprintf("codec: invalid permutation length %d", n))
	}
	if rank < 0 || rank >= Factorial(n) {
		panic(fmt.Sprintf("codec: permutation rank %d out of range for n=%d", rank, n))
	}

	// Factorial table and Lehmer digits by repeated division.
	fact := make([]int, n+1)
	fact[0] = 1
	for i := 1; i <= n; i++ {
		fact[i] = fact[i-1] * i
	}
	lehmer := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		lehmer[n-1-i] = rank / fact[i]
		rank %= fact[i]
	}

	// Decode digits against a shrinking pool of remaining elements.
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	perm := make([]int, 0, n)
	for _, d := range lehmer {
		perm = append(perm, pool[d])
		pool = append(pool[:d], pool[d+1:]...)
	}
	return perm
}

// PermutationRank is the inverse of NthPermutation: it returns the
// lexicographic rank of a permutation of [0, n).
func PermutationRank(perm []int) int {
	n := len(perm)
	fact := make([]int, n+1)
	fact[0] = 1
	for i := 1; i <= n; i++ {
		fact[i] = fact[i-1] * i
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	rank := 0
	for i := 0; i < n; i++ {
		idx := -1
		for j, v := range pool {
			if v == perm[i] {
				idx = j
				break
			}
		}
		if idx < 0 {
			panic(fmt.Sprintf("codec: %v is not a permutation of [0, %d)", perm, n))
		}
		rank += idx * fact[n-1-i]
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return rank
}
