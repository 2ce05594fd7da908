package main

import (
	"bytes"
	"testing"

	"github.com/bft-labs/diodeship/internal/cliconfig"
	"github.com/bft-labs/diodeship/pkg/diode"
)

func TestSendPath(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "argument", args: []string{"a.bin"}, want: "a.bin"},
		{name: "flag", flag: "b.bin", want: "b.bin"},
		{name: "same in both", flag: "a.bin", args: []string{"a.bin"}, want: "a.bin"},
		{name: "conflict", flag: "b.bin", args: []string{"a.bin"}, wantErr: true},
		{name: "missing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sendPath(tt.flag, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("sendPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("sendPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPortRows(t *testing.T) {
	infos := []diode.PortInfo{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: 0x0403, PID: 0x6001, Product: "FT232R"},
	}

	rows := portRows(infos, "/dev/ttyUSB0")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Match || rows[0].VID != "" {
		t.Errorf("non-USB row = %+v", rows[0])
	}
	if !rows[1].Match || rows[1].VID != "0x0403" || rows[1].PID != "0x6001" {
		t.Errorf("adapter row = %+v", rows[1])
	}

	for _, r := range portRows(infos, "") {
		if r.Match {
			t.Errorf("row %s marked without a match", r.Name)
		}
	}
}

func TestReceiveEventsPrintsPaths(t *testing.T) {
	var out bytes.Buffer
	e := &receiveEvents{log: cliconfig.NewLogger(&bytes.Buffer{}), out: &out, once: true}

	e.OnFrameReceived(diode.Receipt{Path: "received_files/decoded_20240101_000000_a.txt"})
	e.OnFrameReceived(diode.Receipt{Path: "received_files/decoded_20240101_000001_b.txt"})

	want := "received_files/decoded_20240101_000000_a.txt\nreceived_files/decoded_20240101_000001_b.txt\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if got := e.received.Load(); got != 2 {
		t.Errorf("received = %d, want 2", got)
	}
}
