package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/diodeship/internal/adapters/log"
	"github.com/bft-labs/diodeship/internal/adapters/serial"
	"github.com/bft-labs/diodeship/internal/cliconfig"
	"github.com/bft-labs/diodeship/pkg/diode"
)

const longHelp = `Move files across a one-way serial link.

The sender writes each file as a single frame and never waits for an answer.
The receiver listens on the other side of the diode, repairs transmission
errors with Reed-Solomon parity and writes the file to its output directory.

Both sides must agree on the baud rate and the number of ECC symbols.`

var exampleUsage = strings.TrimSpace(`
  diodeship send report.pdf --port /dev/ttyUSB0 --ecc 10
  diodeship receive --dir ./received --watch-config
  diodeship ports --output json
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries state shared by the subcommands. Every subcommand binds its
// flags to cfg, so only the flags of the command being run are parsed.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
}

// session is the configuration resolved for one command run.
type session struct {
	cfg     cliconfig.Config
	lib     diode.Config
	path    string
	base    cliconfig.Config
	changed map[string]bool
}

// load layers file and environment under the flags the user set, applies
// the log level and converts the result for the library. fallback is the
// port used when neither a port nor the adapter is found.
func (c *cli) load(cmd *cobra.Command, fallback string) (*session, error) {
	path := c.cfgPath
	if path == "" {
		path = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	base := c.cfg
	merged, err := cliconfig.Load(base, path, changed)
	if err != nil {
		return nil, err
	}
	if err := cliconfig.SetLogLevel(merged.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: log level: %v", diode.ErrInvalidConfig, err)
	}
	lib, err := merged.LibConfig(fallback)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Interface("config", merged).Str("config_path", path).Msg("configuration")
	return &session{cfg: merged, lib: lib, path: path, base: base, changed: changed}, nil
}

// reload re-reads the config file with the original flag overrides.
func (s *session) reload(fallback string) (diode.Config, error) {
	merged, err := cliconfig.Load(s.base, s.path, s.changed)
	if err != nil {
		return diode.Config{}, err
	}
	if err := cliconfig.SetLogLevel(merged.LogLevel); err != nil {
		return diode.Config{}, fmt.Errorf("%w: log level: %v", diode.ErrInvalidConfig, err)
	}
	return merged.LibConfig(fallback)
}

func (c *cli) adapter() diode.Logger {
	return logAdapter.NewZerologAdapter(c.log)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// addLinkFlags registers the flags shared by send and receive.
func (c *cli) addLinkFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.cfg.Port, "port", c.cfg.Port, "serial port (default: adapter found by --vid/--pid, then the platform default)")
	fs.IntVar(&c.cfg.Baud, "baud", c.cfg.Baud, "baud rate; must match the other side")
	fs.IntVar(&c.cfg.ECC, "ecc", c.cfg.ECC, "Reed-Solomon parity symbols per 255-byte block (0 disables FEC)")
	fs.StringVar(&c.cfg.Driver, "driver", c.cfg.Driver, fmt.Sprintf("serial driver (%s)", strings.Join(serial.Drivers(), ", ")))
	fs.DurationVar(&c.cfg.ReadTimeout, "read-timeout", c.cfg.ReadTimeout, "serial read timeout")
	fs.StringVar(&c.cfg.VendorID, "vid", c.cfg.VendorID, "USB vendor id of the adapter, in hex")
	fs.StringVar(&c.cfg.ProductID, "pid", c.cfg.ProductID, "USB product id of the adapter, in hex")
}

func main() {
	c := &cli{
		cfg: cliconfig.DefaultConfig(),
		log: cliconfig.Logger(),
	}

	root := &cobra.Command{
		Use:           "diodeship",
		Short:         "Send and receive files over a one-way serial data diode",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.diodeship/config.toml)")
	root.PersistentFlags().StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newSendCommand(c),
		newReceiveCommand(c),
		newPortsCommand(c),
	)

	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("diodeship")
		os.Exit(1)
	}
}
