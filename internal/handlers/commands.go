package handlers

import (
	"errors"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrCommandArgs    = errors.New("invalid number of arguments")
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // get
	"o": 2, // open
	"f": 2, // flag
	"n": 0, // new board
}

type command struct {
	name string
	pos  mines.Point
}

func parsePoint(args []string) (p mines.Point, err error) {
	if p.Row, err = strconv.Atoi(args[0]); err != nil {
		return p, errors.New("row must be an int")
	}
	if p.Col, err = strconv.Atoi(args[1]); err != nil {
		return p, errors.New("col must be an int")
	}
	return p, nil
}

func parseCommand(s string) (command, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return command{}, ErrUnknownCommand
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, ErrUnknownCommand
	}
	if nargs != len(parts)-1 {
		return command{}, ErrCommandArgs
	}
	c := command{name: parts[0]}
	if nargs == 2 {
		p, err := parsePoint(parts[1:])
		if err != nil {
			return command{}, err
		}
		c.pos = p
	}
	return c, nil
}

// byPiece yields the pieces of s between separators.
func byPiece(s string, sep string) iter.Seq[string] {
	return func(yield func(string) bool) {
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(piece) {
				return
			}
		}
	}
}

// parseCommands splits a message into one command per non-blank line.
func parseCommands(msg string) ([]command, error) {
	var cmds []command
	for line := range byPiece(msg, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c, err := parseCommand(line)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
