package mines

import "github.com/gammazero/deque"

// Reveal opens the cell at p and, when it has no mined neighbours, keeps
// opening outward until the zero region and its numbered border are open.
// It returns the newly revealed points. Out-of-bounds and already revealed
// targets are no-ops. Mines are revealed like any other cell; deciding the
// game outcome is up to the caller.
func (b *Board) Reveal(p Point) []Point {
	if !b.InBounds(p) || b.at(p).Revealed {
		return nil
	}

	var (
		revealed []Point
		todo     deque.Deque[Point]
	)

	open := func(q Point) {
		c := b.at(q)
		c.Revealed = true
		c.Flagged = false
		revealed = append(revealed, q)
		if !c.Mine && c.Adjacent == 0 {
			todo.PushBack(q)
		}
	}

	// cells are marked before they are queued, so each is expanded once
	open(p)
	for todo.Len() > 0 {
		b.neighbours(todo.PopFront(), func(q Point) {
			if !b.at(q).Revealed {
				open(q)
			}
		})
	}

	return revealed
}

// RevealMines discloses every mine for display after a loss.
func (b *Board) RevealMines() []Point {
	var disclosed []Point
	for i := range b.cells {
		if c := &b.cells[i]; c.Mine && !c.Revealed {
			c.Revealed = true
			c.Flagged = false
			disclosed = append(disclosed, b.point(i))
		}
	}
	return disclosed
}

// IsWon reports whether every non-mine cell has been revealed.
func (b *Board) IsWon() bool {
	for _, c := range b.cells {
		if !c.Mine && !c.Revealed {
			return false
		}
	}
	return true
}

// ToggleFlag flips the flag on an unrevealed cell. It reports false and
// changes nothing when p is out of bounds or already revealed.
func (b *Board) ToggleFlag(p Point) bool {
	if !b.InBounds(p) {
		return false
	}
	c := b.at(p)
	if c.Revealed {
		return false
	}
	c.Flagged = !c.Flagged
	return true
}
