package mines

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, size int, mines ...Point) *Board {
	t.Helper()
	b, err := NewBoardFromMines(size, mines)
	require.NoError(t, err)
	return b
}

// closure computes the expected flood fill from p by a naive fixpoint.
func closure(b *Board, p Point) map[Point]bool {
	open := map[Point]bool{p: true}
	for changed := true; changed; {
		changed = false
		for q := range open {
			c := b.at(q)
			if c.Mine || c.Adjacent != 0 {
				continue
			}
			b.neighbours(q, func(n Point) {
				if !open[n] {
					open[n] = true
					changed = true
				}
			})
		}
	}
	return open
}

func TestRevealNumberedCell(t *testing.T) {
	b := mustBoard(t, 3, Point{0, 0})

	revealed := b.Reveal(Point{1, 1})
	assert.Equal(t, []Point{{1, 1}}, revealed)
	assert.Equal(t, 1, b.RevealedCount())
}

func TestRevealFloodScenario(t *testing.T) {
	b := mustBoard(t, 3, Point{0, 0})

	revealed := b.Reveal(Point{2, 2})
	assert.Len(t, revealed, 8)
	assert.NotContains(t, revealed, Point{0, 0})
	assert.True(t, b.IsWon())
}

func TestRevealIdempotent(t *testing.T) {
	b := mustBoard(t, 5, Point{0, 0}, Point{4, 4})

	first := b.Reveal(Point{2, 2})
	require.NotEmpty(t, first)
	before := slices.Clone(b.cells)

	assert.Nil(t, b.Reveal(Point{2, 2}))
	assert.Nil(t, b.Reveal(first[len(first)-1]))
	assert.Equal(t, before, b.cells)
}

func TestRevealOutOfBounds(t *testing.T) {
	b := mustBoard(t, 3, Point{0, 0})
	for _, p := range []Point{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		assert.Nil(t, b.Reveal(p))
	}
	assert.Zero(t, b.RevealedCount())
}

func TestRevealClosure(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		b, err := Generate(12, 15, r)
		require.NoError(t, err)

		var start Point
		for i, c := range b.cells {
			if !c.Mine && c.Adjacent == 0 {
				start = b.point(i)
				break
			}
		}
		want := closure(b, start)

		revealed := b.Reveal(start)
		assert.Len(t, revealed, len(want))
		for _, p := range revealed {
			assert.True(t, want[p], "%v revealed outside closure", p)
		}
		for i, c := range b.cells {
			assert.Equal(t, want[b.point(i)], c.Revealed, "cell %v", b.point(i))
		}
	}
}

func TestRevealClearsFlagsInsideFlood(t *testing.T) {
	b := mustBoard(t, 4, Point{0, 0})
	require.True(t, b.ToggleFlag(Point{3, 3}))

	b.Reveal(Point{2, 2})

	cell, _ := b.Cell(Point{3, 3})
	assert.True(t, cell.Revealed)
	assert.False(t, cell.Flagged)
}

func TestRevealLargeEmptyBoard(t *testing.T) {
	b := mustBoard(t, 500)
	revealed := b.Reveal(Point{250, 250})
	assert.Len(t, revealed, 500*500)
	assert.True(t, b.IsWon())
}

func TestIsWon(t *testing.T) {
	b := mustBoard(t, 3, Point{1, 1})
	assert.False(t, b.IsWon())

	for r := range 3 {
		for c := range 3 {
			p := Point{r, c}
			if p == (Point{1, 1}) {
				continue
			}
			assert.False(t, b.IsWon())
			b.Reveal(p)
		}
	}
	assert.True(t, b.IsWon())
	assert.Equal(t, 3*3-1, b.RevealedCount())
}

func TestToggleFlag(t *testing.T) {
	b := mustBoard(t, 3, Point{0, 0})

	assert.True(t, b.ToggleFlag(Point{0, 0}))
	assert.Equal(t, 1, b.FlagCount())
	cell, _ := b.Cell(Point{0, 0})
	assert.True(t, cell.Flagged)
	assert.False(t, cell.Revealed)

	assert.True(t, b.ToggleFlag(Point{0, 0}))
	assert.Zero(t, b.FlagCount())

	b.Reveal(Point{1, 1})
	assert.False(t, b.ToggleFlag(Point{1, 1}))
	cell, _ = b.Cell(Point{1, 1})
	assert.False(t, cell.Flagged)

	assert.False(t, b.ToggleFlag(Point{5, 5}))
}

func TestRevealMines(t *testing.T) {
	b := mustBoard(t, 3, Point{0, 0}, Point{2, 2})
	b.ToggleFlag(Point{2, 2})

	disclosed := b.RevealMines()
	assert.ElementsMatch(t, []Point{{0, 0}, {2, 2}}, disclosed)
	for _, p := range b.Mines() {
		cell, _ := b.Cell(p)
		assert.True(t, cell.Revealed)
		assert.False(t, cell.Flagged)
	}
	assert.Equal(t, 2, b.RevealedCount())
}
