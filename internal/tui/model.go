// Package tui plays a session in the terminal.
package tui

import (
	"errors"
	"math/rand/v2"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
)

type Model struct {
	session *mines.Session
	newRand func() *rand.Rand
	log     logrus.FieldLogger
	cursor  mines.Point
	// last mine stepped on, highlighted after a loss
	tripped *mines.Point
	message string
}

func New(session *mines.Session, newRand func() *rand.Rand, log logrus.FieldLogger) Model {
	return Model{session: session, newRand: newRand, log: log}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	size := m.session.Board().Size()
	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor.Row > 0 {
			m.cursor.Row--
		}
	case "down", "j":
		if m.cursor.Row < size-1 {
			m.cursor.Row++
		}
	case "left", "h":
		if m.cursor.Col > 0 {
			m.cursor.Col--
		}
	case "right", "l":
		if m.cursor.Col < size-1 {
			m.cursor.Col++
		}
	case " ", "enter":
		m.reveal()
	case "f":
		m.flag()
	case "r":
		m.restart()
	}
	return m, nil
}

func (m *Model) reveal() {
	res, err := m.session.HandlePrimaryAction(m.cursor)
	if err != nil {
		m.reject(err)
		return
	}
	m.message = ""
	if res.Outcome == mines.Lose {
		p := m.cursor
		m.tripped = &p
	}
	if res.Outcome != mines.Continue {
		m.log.WithField("outcome", res.Outcome.String()).Info("game finished")
	}
}

func (m *Model) flag() {
	if _, err := m.session.HandleSecondaryAction(m.cursor); err != nil {
		m.reject(err)
		return
	}
	m.message = ""
}

func (m *Model) restart() {
	if err := m.session.Restart(m.newRand()); err != nil {
		m.reject(err)
		return
	}
	m.tripped = nil
	m.message = ""
}

func (m *Model) reject(err error) {
	switch {
	case errors.Is(err, mines.ErrGameOver):
		m.message = "game is over, press r to restart"
	case errors.Is(err, mines.ErrCellRevealed):
		m.message = "cell is already open"
	default:
		m.message = err.Error()
	}
}
