package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	rootcmd "github.com/andareed/siftly-labeler/cmd"
	"github.com/andareed/siftly-labeler/ingest"
	"github.com/andareed/siftly-labeler/labelapi"
)

type ingestCmd struct {
	Server   string           `default:"http://localhost:5000" env:"SFLABEL_SERVER" help:"Labeling service base URL."`
	Attempts int              `default:"6" help:"Attempts per reading before giving up."`
	Debug    bool             `help:"Log at debug level."`
	Version  kong.VersionFlag `help:"Print version and exit."`
	File     string           `arg:"" optional:"" type:"existingfile" help:"File of ts;ax;ay;az;gx;gy;gz;pulse lines (stdin when omitted)."`
}

func (cmd *ingestCmd) Run(ctx context.Context) error {
	log := rootcmd.NewLogger(cmd.Debug)

	client, err := labelapi.NewClient(cmd.Server)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if cmd.File != "" {
		f, err := os.Open(cmd.File)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	r := ingest.NewReplayer(client, log)
	if cmd.Attempts > 0 {
		r.MaxAttempts = cmd.Attempts
	}
	st, err := r.Replay(ctx, in)
	log.Info("replay finished", "lines", st.Lines, "sent", st.Sent, "skipped", st.Skipped, "rejected", st.Rejected)
	return err
}

func main() {
	rootcmd.Run(&ingestCmd{}, "sfingest", "Replay sensor lines into the labeling service")
}
