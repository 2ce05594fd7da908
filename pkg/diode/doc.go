// Package diode sends files across a one-way serial link and receives them
// on the far side.
//
// The sender never hears back from the receiver, so every file travels as
// one self-delimited frame whose payload is protected by Reed-Solomon
// forward error correction. The receiver listens continuously, writing each
// decoded file to its output directory.
//
// # Sending
//
//	client, err := diode.New(diode.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Send(ctx, "report.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Receiving
//
//	client, err := diode.New(diode.DefaultConfig(),
//	    diode.WithEventHandler(handler),
//	)
//	// Blocks until Stop or ctx is done.
//	err = client.Listen(ctx)
//
// Listen never gives up on its own: a timeout is the idle state and any
// other failure is reported through the logger and [EventHandler] before
// the next attempt. Stop is observed between attempts, so it takes effect
// within one read timeout.
//
// # Ports
//
// When Config.Port is empty the client looks for the USB serial adapter
// with Config.VendorID/ProductID (a CP210x by default) and falls back to
// [DefaultSendPort] or [DefaultReceivePort].
//
// # Both ends must agree
//
// There is no negotiation on the link. Baud rate and ECC must be set to the
// same values on both sides out of band.
package diode
