package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Placement selects how mines are scattered over a fresh board. Both
// strategies are uniform over all layouts with the requested mine count.
type Placement int

const (
	// ShuffleSampling picks mines off a candidate list by swap-remove and
	// always finishes in mineCount steps.
	ShuffleSampling Placement = iota
	// RejectionSampling draws random coordinates until enough empty ones
	// were hit. Slows down sharply on dense boards.
	RejectionSampling
)

func (p Placement) String() string {
	switch p {
	case ShuffleSampling:
		return "shuffle"
	case RejectionSampling:
		return "rejection"
	default:
		return fmt.Sprintf("Placement(%d)", int(p))
	}
}

func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shuffle":
		return ShuffleSampling, nil
	case "rejection":
		return RejectionSampling, nil
	}
	return 0, fmt.Errorf("%w: unknown placement %q", ErrInvalidConfiguration, s)
}

func (p Placement) place(b *Board, mineCount int, rnd *rand.Rand) {
	switch p {
	case RejectionSampling:
		placeRejection(b, mineCount, rnd)
	default:
		placeShuffle(b, mineCount, rnd)
	}
}

func placeShuffle(b *Board, mineCount int, rnd *rand.Rand) {
	candidates := make([]int, len(b.cells))
	for i := range candidates {
		candidates[i] = i
	}
	k := len(candidates)
	for range mineCount {
		i := rnd.IntN(k)
		b.cells[candidates[i]].Mine = true
		k--
		candidates[i] = candidates[k]
	}
}

func placeRejection(b *Board, mineCount int, rnd *rand.Rand) {
	for placed := 0; placed < mineCount; {
		c := &b.cells[rnd.IntN(b.size)*b.size+rnd.IntN(b.size)]
		if !c.Mine {
			c.Mine = true
			placed++
		}
	}
}
