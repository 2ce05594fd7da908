// Package ports defines the interfaces between the transfer core and the
// outside world.
//
// # Port Interfaces
//
//   - [Transport]: one open, timeout-bounded handle on the serial link
//   - [TransportOpener]: opens a fresh Transport per attempt
//   - [PortEnumerator]: lists serial devices and their USB identifiers
//   - [ArtifactStore]: persists received files
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them with go.bug.st/serial,
// github.com/tarm/serial, the local file system and zerolog.
package ports
