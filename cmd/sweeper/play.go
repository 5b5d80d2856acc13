package main

import (
	"hash/maphash"
	"io"
	"math/rand/v2"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/tui"
)

type placementValue mines.Placement

func (v *placementValue) String() string {
	return mines.Placement(*v).String()
}

func (v *placementValue) Set(s string) error {
	p, err := mines.ParsePlacement(s)
	if err != nil {
		return err
	}
	*v = placementValue(p)
	return nil
}

func (v *placementValue) Type() string {
	return "placement"
}

var (
	playSize      int
	playMines     int
	playPlacement placementValue
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		size, mineCount := cfg.Game.Size, cfg.Game.MineCount
		if cmd.Flags().Changed("size") {
			size = playSize
		}
		if cmd.Flags().Changed("mines") {
			mineCount = playMines
		}
		placement := cfg.Placement()
		if cmd.Flags().Changed("placement") {
			placement = mines.Placement(playPlacement)
		}

		session, err := mines.NewSessionWithPlacement(size, mineCount, newRand(), placement)
		if err != nil {
			return err
		}

		// the alt screen owns the terminal; keep stderr logs out of it
		if cfg.Log.File == "" {
			log.SetOutput(io.Discard)
		}

		_, err = tea.NewProgram(tui.New(session, newRand, log), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	playCmd.Flags().IntVarP(&playSize, "size", "s", mines.DefaultSize, "Board side length, in cells")
	playCmd.Flags().IntVarP(&playMines, "mines", "m", mines.DefaultMineCount, "Number of mines to place on the board")
	playCmd.Flags().Var(&playPlacement, "placement", `Mine placement strategy.
shuffle: partial Fisher-Yates over all cells
rejection: retry random cells until enough are free`)
}
