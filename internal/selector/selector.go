// Package selector picks one key at random from a sorted key slice, either
// uniformly or biased toward the end of the slice.
//
// Both selectors draw from math/rand/v2's top-level source, which the runtime
// seeds once per process and which is safe for concurrent use. Neither
// selector mutates its input.
package selector

import (
	"math"
	"math/rand/v2"
)

// Decay is the per-position growth rate of Biased's weights: position i
// has weight exp(i*Decay).
const Decay = 0.05

// Mode names a selection algorithm.
type Mode string

const (
	ModeUniform Mode = "uniform"
	ModeBiased  Mode = "biased"
)

// Uniform returns a key chosen with equal probability from keys.
// It returns false if keys is empty.
func Uniform(keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	return keys[rand.IntN(len(keys))], true
}

// Biased returns a key from keys, giving position i weight exp(i*Decay).
// Later positions are more likely but every position stays reachable.
//
// The bias only means "newer" when keys sort chronologically, e.g. filenames
// that start with an ISO date. Keys are not checked for that.
func Biased(keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	return keys[biasedIndex(len(keys), rand.Float64())], true
}

// biasedIndex maps u in [0, 1) to an index in [0, n) with probability
// proportional to exp(i*Decay).
//
// Weights are taken relative to the last position, so j = n-1-i has weight
// q^j with q = exp(-Decay). That keeps every term <= 1 for any n, and the
// truncated geometric CDF inverts in closed form:
//
//	F(J) = (1 - q^(J+1)) / (1 - q^n)
//	J    = floor(-log(1 - u*(1 - q^n)) / Decay)
func biasedIndex(n int, u float64) int {
	x := u * -math.Expm1(-float64(n)*Decay)
	j := int(-math.Log1p(-x) / Decay)
	if j > n-1 {
		j = n - 1
	}
	if j < 0 {
		j = 0
	}
	return n - 1 - j
}

// Pick dispatches to the selector named by mode.
func Pick(mode Mode, keys []string) (string, bool) {
	switch mode {
	case ModeBiased:
		return Biased(keys)
	default:
		return Uniform(keys)
	}
}
