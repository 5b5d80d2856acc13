package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/sweeper/internal/mines"
)

var (
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("81")).Foreground(lipgloss.Color("255"))
	mineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	trippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Bold(true)
	flagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hiddenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	numStyles    = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("41")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("248")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().MarginTop(1)
	lostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	wonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
)

func (m Model) cellStyle(v mines.CellView) lipgloss.Style {
	switch {
	case v.Revealed && v.Mine && m.tripped != nil && *m.tripped == (mines.Point{Row: v.Row, Col: v.Col}):
		return trippedStyle
	case v.Revealed && v.Mine:
		return mineStyle
	case v.Flagged:
		return flagStyle
	case v.Revealed && v.Adjacent > 0:
		return numStyles[v.Adjacent-1]
	default:
		return hiddenStyle
	}
}

func (m Model) View() string {
	view := m.session.View()

	var board strings.Builder
	for r, row := range view.Cells {
		for _, v := range row {
			content := " " + v.String() + " "
			if v.Row == m.cursor.Row && v.Col == m.cursor.Col {
				board.WriteString(cursorStyle.Render(content))
			} else {
				board.WriteString(m.cellStyle(v).Render(content))
			}
		}
		if r < len(view.Cells)-1 {
			board.WriteByte('\n')
		}
	}

	status := fmt.Sprintf("mines left: %d", view.MinesLeft)
	var help string
	switch view.State {
	case mines.Lost:
		help = lostStyle.Render("GAME OVER • r: restart • q: quit")
	case mines.Won:
		help = wonStyle.Render("YOU WIN • r: restart • q: quit")
	default:
		help = helpStyle.Render("arrows/hjkl: move • space: open • f: flag • r: restart • q: quit")
	}

	parts := []string{
		boardStyle.Render(board.String()),
		statusStyle.Render(status),
		help,
	}
	if m.message != "" {
		parts = append(parts, helpStyle.Render(m.message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
