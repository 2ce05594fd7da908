package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/diodeship/pkg/diode"
)

func newSendCommand(c *cli) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "send [FILE]",
		Short: "Send one file as a single frame",
		Long: `Send one file as a single frame.

Success means the frame was handed to the serial driver. Nothing comes back
across a diode, so delivery cannot be confirmed from this side.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sendPath(file, args)
			if err != nil {
				return err
			}

			s, err := c.load(cmd, diode.DefaultSendPort())
			if err != nil {
				return err
			}

			client, err := diode.New(s.lib, diode.WithLogger(c.adapter()))
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			if err := client.Send(ctx, path); err != nil {
				return fmt.Errorf("send %s: %w", path, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "file to send (alternative to the FILE argument)")
	c.addLinkFlags(cmd.Flags())
	return cmd
}

// sendPath picks the file from --file or the positional argument.
func sendPath(flag string, args []string) (string, error) {
	switch {
	case len(args) == 1 && flag != "" && flag != args[0]:
		return "", fmt.Errorf("conflicting files: --file %q and argument %q", flag, args[0])
	case len(args) == 1:
		return args[0], nil
	case flag != "":
		return flag, nil
	default:
		return "", errors.New("no file to send: pass FILE or --file")
	}
}
