package main

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	rootcmd "github.com/andareed/siftly-labeler/cmd"
	"github.com/andareed/siftly-labeler/labelapi"
	"github.com/andareed/siftly-labeler/logging"
	"github.com/andareed/siftly-labeler/samples"
)

type sflabelCmd struct {
	Server  string           `default:"http://localhost:5000" env:"SFLABEL_SERVER" help:"Labeling service base URL."`
	Limit   int              `default:"1000" help:"How many of the most recent unlabeled samples to load (200, 500, 1000 or 2000)."`
	Debug   string           `placeholder:"FILE" help:"Write debug logs to file."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

func (cmd *sflabelCmd) Run(ctx context.Context) error {
	if !slices.Contains(samples.LoadSizes, cmd.Limit) {
		return fmt.Errorf("--limit must be one of %v", samples.LoadSizes)
	}

	cleanup, err := logging.SetupLogging(cmd.Debug)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer cleanup()

	log.Println("sflabel: Started")

	client, err := labelapi.NewClient(cmd.Server)
	if err != nil {
		return err
	}

	m := newModel(ctx, client, client, cmd.Limit)
	m.server = cmd.Server

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		log.Printf("Tea program error: %v", err)
		return err
	}
	return nil
}

func main() {
	rootcmd.Run(&sflabelCmd{}, "sflabel", "Label recent sensor samples by selecting them on a chart or table")
}
