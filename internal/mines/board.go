package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

const (
	DefaultSize      = 9
	DefaultMineCount = 10
)

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Cell struct {
	Mine     bool
	Revealed bool
	Flagged  bool
	Adjacent int // mined neighbours, unused for mines
}

// Board is a square grid stored row-major.
type Board struct {
	size      int
	mineCount int
	cells     []Cell
}

func ValidateParams(size, mineCount int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfiguration, size)
	}
	if mineCount < 0 || mineCount >= size*size {
		return fmt.Errorf(
			"%w: mine count must be in [0, %d), got %d",
			ErrInvalidConfiguration, size*size, mineCount,
		)
	}
	return nil
}

// Generate builds a board with mineCount mines placed by [ShuffleSampling].
func Generate(size, mineCount int, rnd *rand.Rand) (*Board, error) {
	return GenerateWithPlacement(size, mineCount, rnd, ShuffleSampling)
}

func GenerateWithPlacement(
	size, mineCount int, rnd *rand.Rand, placement Placement,
) (*Board, error) {
	if err := ValidateParams(size, mineCount); err != nil {
		return nil, err
	}
	b := newBoard(size)
	placement.place(b, mineCount, rnd)
	b.mineCount = mineCount
	b.countAdjacent()

	Log.WithFields(logrus.Fields{
		"size":      size,
		"mineCount": mineCount,
		"placement": placement.String(),
	}).Debug("generated board")

	return b, nil
}

// NewBoardFromMines builds a board with mines at exactly the given points.
func NewBoardFromMines(size int, mines []Point) (*Board, error) {
	if err := ValidateParams(size, len(mines)); err != nil {
		return nil, err
	}
	b := newBoard(size)
	for _, p := range mines {
		if !b.InBounds(p) {
			return nil, fmt.Errorf("%w: mine %v out of bounds", ErrInvalidConfiguration, p)
		}
		c := b.at(p)
		if c.Mine {
			return nil, fmt.Errorf("%w: duplicate mine %v", ErrInvalidConfiguration, p)
		}
		c.Mine = true
	}
	b.mineCount = len(mines)
	b.countAdjacent()
	return b, nil
}

func newBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

func (b *Board) Size() int      { return b.size }
func (b *Board) MineCount() int { return b.mineCount }

func (b *Board) InBounds(p Point) bool {
	return 0 <= p.Row && p.Row < b.size && 0 <= p.Col && p.Col < b.size
}

// Cell returns a copy of the cell at p.
func (b *Board) Cell(p Point) (Cell, bool) {
	if !b.InBounds(p) {
		return Cell{}, false
	}
	return *b.at(p), true
}

func (b *Board) at(p Point) *Cell {
	return &b.cells[p.Row*b.size+p.Col]
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.size, Col: i % b.size}
}

// neighbours calls fn for each in-bounds cell around p, excluding p itself.
func (b *Board) neighbours(p Point, fn func(Point)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			q := Point{Row: p.Row + dr, Col: p.Col + dc}
			if b.InBounds(q) {
				fn(q)
			}
		}
	}
}

func (b *Board) countAdjacent() {
	for i := range b.cells {
		if b.cells[i].Mine {
			continue
		}
		n := 0
		b.neighbours(b.point(i), func(q Point) {
			if b.at(q).Mine {
				n++
			}
		})
		b.cells[i].Adjacent = n
	}
}

// Mines lists mine positions in row-major order.
func (b *Board) Mines() []Point {
	points := make([]Point, 0, b.mineCount)
	for i, c := range b.cells {
		if c.Mine {
			points = append(points, b.point(i))
		}
	}
	return points
}

func (b *Board) RevealedCount() (n int) {
	for _, c := range b.cells {
		if c.Revealed {
			n++
		}
	}
	return
}

func (b *Board) FlagCount() (n int) {
	for _, c := range b.cells {
		if c.Flagged {
			n++
		}
	}
	return
}
