package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/diodeship/internal/output"
	"github.com/bft-labs/diodeship/pkg/diode"
)

func newPortsCommand(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports and mark the diode adapter",
		Long: `List the serial ports visible to this host.

The port that send and receive would pick from --vid/--pid is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := output.ParseFormat(format); err != nil {
				return err
			}
			s, err := c.load(cmd, diode.DefaultReceivePort())
			if err != nil {
				return err
			}
			client, err := diode.New(s.lib, diode.WithLogger(c.adapter()))
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			infos, err := client.Ports()
			if err != nil {
				return fmt.Errorf("list ports: %w", err)
			}
			match, _ := client.FindPort()
			return output.WritePorts(cmd.OutOrStdout(), format, portRows(infos, match))
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", output.FormatTable, "output format (table, json, yaml)")
	cmd.Flags().StringVar(&c.cfg.VendorID, "vid", c.cfg.VendorID, "USB vendor id of the adapter, in hex")
	cmd.Flags().StringVar(&c.cfg.ProductID, "pid", c.cfg.ProductID, "USB product id of the adapter, in hex")
	return cmd
}

// portRows converts enumerated ports to listing rows, marking match.
func portRows(infos []diode.PortInfo, match string) []output.PortRow {
	rows := make([]output.PortRow, 0, len(infos))
	for _, p := range infos {
		row := output.PortRow{
			Name:    p.Name,
			USB:     p.IsUSB,
			Serial:  p.SerialNumber,
			Product: p.Product,
			Match:   match != "" && p.Name == match,
		}
		if p.IsUSB {
			row.VID = fmt.Sprintf("0x%04x", p.VID)
			row.PID = fmt.Sprintf("0x%04x", p.PID)
		}
		rows = append(rows, row)
	}
	return rows
}
