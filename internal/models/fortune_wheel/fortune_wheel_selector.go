package fortune_wheel

import (
	"errors"
	"math"
	"math/rand"
)

var (
	ErrEmptyWheel        = errors.New("wheel has no entries")
	ErrNonPositiveWeight = errors.New("wheel entry weight must be positive")
)

// Rand is the randomness the wheel needs. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) Intn(n int) int   { return rand.Intn(n) }

// DefaultRand uses the goroutine-safe top level math/rand source.
var DefaultRand Rand = globalRand{}

// WeightedRandomSelection draws one entry with probability weight/total.
func WeightedRandomSelection(entries []WheelEntry, rnd Rand) (WheelEntry, error) {
	if len(entries) == 0 {
		return WheelEntry{}, ErrEmptyWheel
	}

	total := 0.0
	for i := range entries {
		w := entries[i].Weight
		if !(w > 0) || math.IsInf(w, 0) {
			return WheelEntry{}, ErrNonPositiveWeight
		}
		total += w
	}

	r := rnd.Float64() * total
	for i := range entries {
		r -= entries[i].Weight
		if r <= 0 {
			return entries[i], nil
		}
	}

	// Rounding can leave a tiny positive remainder.
	return entries[len(entries)-1], nil
}
