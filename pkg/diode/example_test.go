package diode_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bft-labs/diodeship/pkg/diode"
)

// Example_send demonstrates sending one file with the default settings.
func Example_send() {
	client, err := diode.New(diode.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	if err := client.Send(context.Background(), "report.pdf"); err != nil {
		log.Printf("send failed: %v", err)
	}
}

// Example_listen demonstrates a receiver that stops after the first file.
func Example_listen() {
	cfg := diode.DefaultConfig()
	cfg.OutputDir = "/var/spool/diode"

	handler := &printHandler{}
	client, err := diode.New(cfg, diode.WithEventHandler(handler))
	if err != nil {
		log.Fatal(err)
	}
	handler.stop = client.Stop

	if err := client.Listen(context.Background()); err != nil {
		log.Fatal(err)
	}
}

// Example_errors demonstrates classifying a receive attempt.
func Example_errors() {
	client, err := diode.New(diode.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	_, err = client.ReceiveOnce(context.Background())
	switch {
	case err == nil:
		fmt.Println("received")
	case errors.Is(err, diode.ErrTimeout):
		fmt.Println("nothing on the line")
	case errors.Is(err, diode.ErrFECDecode):
		fmt.Println("too many bit errors")
	default:
		fmt.Println("failed:", err)
	}
}

type printHandler struct {
	stop func() error
}

func (h *printHandler) OnStateChange(e diode.StateChangeEvent) {
	fmt.Printf("%s -> %s\n", e.Previous, e.Current)
}

func (h *printHandler) OnFrameReceived(r diode.Receipt) {
	fmt.Printf("saved %s (%d bytes, %d symbols corrected)\n", r.Path, r.PayloadBytes, r.Corrected)
	h.stop()
}

func (h *printHandler) OnAttemptError(e diode.AttemptErrorEvent) {
	fmt.Println("attempt failed:", e.Error)
}
