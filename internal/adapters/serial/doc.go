// Package serial provides serial-port transports and port enumeration.
//
// Two drivers are available: go.bug.st/serial (the default, also used for
// USB enumeration) and github.com/tarm/serial. Both return a transport
// whose Read reports a timeout as a zero-byte read.
package serial
