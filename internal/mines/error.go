package mines

import "errors"

var (
	// ErrInvalidConfiguration is returned when a board cannot be built from
	// the requested size and mine count.
	ErrInvalidConfiguration = errors.New("invalid board configuration")

	// ErrGameOver rejects mutations after the session has been won or lost.
	ErrGameOver = errors.New("game is over")

	// ErrCellRevealed rejects flagging a revealed cell.
	ErrCellRevealed = errors.New("cell already revealed")
)
