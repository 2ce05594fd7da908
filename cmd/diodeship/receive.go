package main

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bft-labs/diodeship/pkg/diode"
	"github.com/bft-labs/diodeship/plugins/configwatcher"
	"github.com/bft-labs/diodeship/plugins/outputcleanup"
)

func newReceiveCommand(c *cli) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Listen for frames and write received files",
		Long: `Listen for frames and write received files to the output directory.

Failed attempts are logged and listening continues. Stop with Ctrl-C, or
pass --once to exit after the first file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd, diode.DefaultReceivePort())
			if err != nil {
				return err
			}

			events := &receiveEvents{log: c.log, out: cmd.OutOrStdout(), once: once}
			opts := []diode.Option{
				diode.WithLogger(c.adapter()),
				diode.WithEventHandler(events),
			}
			if s.cfg.WatchConfig {
				wc := configwatcher.DefaultConfig()
				wc.Path = s.path
				wc.Reload = func() (diode.Config, error) {
					return s.reload(diode.DefaultReceivePort())
				}
				opts = append(opts, configwatcher.WithConfigWatcher(wc))
			}
			if s.cfg.MaxOutputBytes > 0 {
				oc := outputcleanup.DefaultConfig()
				oc.HighWatermark = int64(s.cfg.MaxOutputBytes)
				opts = append(opts, outputcleanup.WithOutputCleanup(oc))
			}

			client, err := diode.New(s.lib, opts...)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			events.client = client

			ctx, cancel := signalContext()
			defer cancel()

			if err := client.Listen(ctx); err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			c.log.Info().Int64("files", events.received.Load()).Msg("receiver stopped")
			return nil
		},
	}

	flags := cmd.Flags()
	c.addLinkFlags(flags)
	flags.StringVar(&c.cfg.OutputDir, "dir", c.cfg.OutputDir, "directory for received files")
	flags.DurationVar(&c.cfg.IdlePause, "idle-pause", c.cfg.IdlePause, "pause after a read timeout before listening again")
	flags.IntVar(&c.cfg.MaxPayloadBytes, "max-payload-bytes", c.cfg.MaxPayloadBytes, "largest encoded payload accepted from the wire")
	flags.IntVar(&c.cfg.MaxOutputBytes, "max-output-bytes", c.cfg.MaxOutputBytes, "remove the oldest received files above this many bytes (0 keeps all)")
	flags.BoolVar(&c.cfg.WatchConfig, "watch-config", c.cfg.WatchConfig, "reload settings when the config file changes")
	flags.BoolVar(&once, "once", false, "exit after the first received file")
	return cmd
}

// receiveEvents reports received files and ends listening after the first
// one when once is set.
type receiveEvents struct {
	log      zerolog.Logger
	out      io.Writer
	once     bool
	client   *diode.Client
	received atomic.Int64
}

func (e *receiveEvents) OnStateChange(event diode.StateChangeEvent) {
	e.log.Debug().
		Str("from", event.Previous.String()).
		Str("to", event.Current.String()).
		Msg("listen state")
}

// OnFrameReceived prints the artifact path on stdout, one per line, so
// the receiver can feed a pipeline. Details are in the log.
func (e *receiveEvents) OnFrameReceived(r diode.Receipt) {
	e.received.Add(1)
	fmt.Fprintln(e.out, r.Path)

	if e.once && e.client != nil {
		if err := e.client.Stop(); err != nil {
			e.log.Warn().Err(err).Msg("stop after first file")
		}
	}
}

func (e *receiveEvents) OnAttemptError(event diode.AttemptErrorEvent) {
	// The listener already logs the failure at error level.
	e.log.Debug().Err(event.Error).Msg("attempt failed")
}
