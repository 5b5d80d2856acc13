package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

type State int

const (
	InProgress State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Outcome int

const (
	Continue Outcome = iota
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

type RevealedCell struct {
	Row      int `json:"row"`
	Col      int `json:"col"`
	Adjacent int `json:"adjacent"`
}

type ActionResult struct {
	Outcome  Outcome        `json:"outcome"`
	Revealed []RevealedCell `json:"revealed"`
}

type FlagResult struct {
	Flagged bool `json:"flagged"`
}

// Session owns one board for the duration of a game and enforces the
// InProgress -> Won|Lost state machine. It is not safe for concurrent use.
type Session struct {
	board     *Board
	state     State
	placement Placement
}

func NewSession(size, mineCount int, rnd *rand.Rand) (*Session, error) {
	return NewSessionWithPlacement(size, mineCount, rnd, ShuffleSampling)
}

func NewSessionWithPlacement(
	size, mineCount int, rnd *rand.Rand, placement Placement,
) (*Session, error) {
	board, err := GenerateWithPlacement(size, mineCount, rnd, placement)
	if err != nil {
		return nil, err
	}
	s := NewSessionWithBoard(board)
	s.placement = placement
	return s, nil
}

func NewSessionWithBoard(board *Board) *Session {
	return &Session{board: board, state: InProgress}
}

func (s *Session) Board() *Board { return s.board }
func (s *Session) State() State  { return s.state }

// CanMutate reports whether reveal and flag actions are still accepted.
func (s *Session) CanMutate() bool {
	return s.state == InProgress
}

func (s *Session) outcome() Outcome {
	switch s.state {
	case Won:
		return Win
	case Lost:
		return Lose
	default:
		return Continue
	}
}

// HandlePrimaryAction reveals the cell at p. Stepping on a mine loses the
// game and discloses every mine; otherwise the flood fill runs and the win
// check follows. Out-of-bounds, flagged and revealed targets are no-ops.
func (s *Session) HandlePrimaryAction(p Point) (ActionResult, error) {
	if !s.CanMutate() {
		return ActionResult{Outcome: s.outcome()}, ErrGameOver
	}
	cell, ok := s.board.Cell(p)
	if !ok || cell.Revealed || cell.Flagged {
		return ActionResult{Outcome: Continue}, nil
	}

	if cell.Mine {
		s.state = Lost
		disclosed := s.board.RevealMines()
		Log.WithFields(logrus.Fields{"row": p.Row, "col": p.Col}).Debug("mine revealed")
		return ActionResult{Outcome: Lose, Revealed: s.describe(disclosed)}, nil
	}

	revealed := s.board.Reveal(p)
	if s.board.IsWon() {
		s.state = Won
	}
	return ActionResult{Outcome: s.outcome(), Revealed: s.describe(revealed)}, nil
}

// HandleSecondaryAction toggles the flag at p. Out-of-bounds targets are
// ignored; revealed targets are rejected with [ErrCellRevealed].
func (s *Session) HandleSecondaryAction(p Point) (FlagResult, error) {
	if !s.CanMutate() {
		return FlagResult{}, ErrGameOver
	}
	cell, ok := s.board.Cell(p)
	if !ok {
		return FlagResult{}, nil
	}
	if cell.Revealed {
		return FlagResult{}, ErrCellRevealed
	}
	s.board.ToggleFlag(p)
	return FlagResult{Flagged: !cell.Flagged}, nil
}

// Restart replaces the board with a freshly generated one of the same size
// and mine count.
func (s *Session) Restart(rnd *rand.Rand) error {
	board, err := GenerateWithPlacement(
		s.board.Size(), s.board.MineCount(), rnd, s.placement,
	)
	if err != nil {
		return err
	}
	s.board = board
	s.state = InProgress
	return nil
}

func (s *Session) FlagCount() int { return s.board.FlagCount() }

// MinesLeft is the mine count minus placed flags; it goes negative when
// the player over-flags.
func (s *Session) MinesLeft() int {
	return s.board.MineCount() - s.board.FlagCount()
}

func (s *Session) describe(points []Point) []RevealedCell {
	cells := make([]RevealedCell, len(points))
	for i, p := range points {
		c := s.board.at(p)
		cells[i] = RevealedCell{Row: p.Row, Col: p.Col, Adjacent: c.Adjacent}
	}
	return cells
}
