package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	rootcmd "github.com/andareed/siftly-labeler/cmd"
	"github.com/andareed/siftly-labeler/labeld"
)

type labeldCmd struct {
	Listen  string           `default:":5000" env:"LABELD_LISTEN" help:"Address to listen on."`
	DB      string           `default:"sensor_data.db" env:"LABELD_DB" help:"SQLite database file."`
	Debug   bool             `env:"LABELD_DEBUG" help:"Log at debug level."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

func (cmd *labeldCmd) Run(ctx context.Context) error {
	log := rootcmd.NewLogger(cmd.Debug)

	store, err := labeld.OpenStore(cmd.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	log.Info("database ready", "path", cmd.DB)
	return labeld.NewServer(store, log).Run(ctx, cmd.Listen)
}

func main() {
	rootcmd.Run(&labeldCmd{}, "labeld", "Sensor sample labeling service")
}
