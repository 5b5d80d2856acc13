package mines

import (
	"strconv"
	"strings"
)

// CellView is the read model of one cell. Mine is only exposed for
// revealed cells or once the game is lost; Adjacent only for revealed
// non-mine cells.
type CellView struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Revealed bool `json:"revealed"`
	Flagged  bool `json:"flagged"`
	Mine     bool `json:"mine"`
	Adjacent int  `json:"adjacent"`
}

func (v CellView) String() string {
	switch {
	case v.Revealed && v.Mine:
		return "*"
	case v.Flagged:
		return "F"
	case !v.Revealed:
		return "#"
	case v.Adjacent == 0:
		return "."
	default:
		return strconv.Itoa(v.Adjacent)
	}
}

type BoardView struct {
	Size      int          `json:"size"`
	MineCount int          `json:"mine_count"`
	MinesLeft int          `json:"mines_left"`
	State     State        `json:"state"`
	Cells     [][]CellView `json:"cells"`
}

func (v BoardView) String() string {
	var b strings.Builder
	for _, row := range v.Cells {
		for i, c := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(c.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *Session) GetCell(p Point) (CellView, bool) {
	c, ok := s.board.Cell(p)
	if !ok {
		return CellView{}, false
	}
	v := CellView{
		Row:      p.Row,
		Col:      p.Col,
		Revealed: c.Revealed,
		Flagged:  c.Flagged,
	}
	if c.Revealed || s.state == Lost {
		v.Mine = c.Mine
	}
	if c.Revealed && !c.Mine {
		v.Adjacent = c.Adjacent
	}
	return v, true
}

func (s *Session) View() BoardView {
	size := s.board.Size()
	cells := make([][]CellView, size)
	for r := range size {
		cells[r] = make([]CellView, size)
		for c := range size {
			cells[r][c], _ = s.GetCell(Point{Row: r, Col: c})
		}
	}
	return BoardView{
		Size:      size,
		MineCount: s.board.MineCount(),
		MinesLeft: s.MinesLeft(),
		State:     s.state,
		Cells:     cells,
	}
}
