package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/logging"
	"github.com/vancomm/sweeper/internal/mines"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Minesweeper board engine with an HTTP API and a terminal client",
	Long: `sweeper runs minesweeper sessions.

Serve the HTTP and websocket API
	sweeper serve --config sweeper.yaml

Play in the terminal
	sweeper play --size 16 --mines 40

Apply outcome journal migrations
	sweeper migrate
`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and installs the logger used by every
// subcommand, including the engine's package logger.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log, cfg.Development())
	if err != nil {
		return nil, nil, err
	}
	mines.Log = log

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")
	return cfg, log, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")

	rootCmd.AddCommand(serveCmd, playCmd, migrateCmd)
}
