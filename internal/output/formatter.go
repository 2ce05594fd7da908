// Package output renders CLI listings as an aligned table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// PortRow is one line of the ports listing.
type PortRow struct {
	Name    string `json:"name" yaml:"name"`
	USB     bool   `json:"usb" yaml:"usb"`
	VID     string `json:"vid,omitempty" yaml:"vid,omitempty"`
	PID     string `json:"pid,omitempty" yaml:"pid,omitempty"`
	Serial  string `json:"serial,omitempty" yaml:"serial,omitempty"`
	Product string `json:"product,omitempty" yaml:"product,omitempty"`
	Match   bool   `json:"match" yaml:"match"`
}

// ParseFormat normalizes a format name. An empty name means table.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", name)
	}
}

// WritePorts writes rows to w in the given format.
func WritePorts(w io.Writer, format string, rows []PortRow) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []PortRow{}
		}
		return enc.Encode(rows)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writePortTable(w, rows)
	}
}

func writePortTable(w io.Writer, rows []PortRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No serial ports found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tPORT\tVID\tPID\tSERIAL\tPRODUCT")
	for _, r := range rows {
		mark := ""
		if r.Match {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, r.Name, dash(r.VID), dash(r.PID), dash(r.Serial), dash(r.Product))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
