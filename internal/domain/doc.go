// Package domain contains the value types and error categories of a one-way
// file transfer.
//
// It has no dependencies on infrastructure (serial ports, file system,
// logging) and holds only the rules both halves of the link agree on.
//
// # Types
//
//   - [Port]: the serial port and baud rate chosen for one attempt
//   - [PortInfo]: an enumerated serial device and its USB identifiers
//   - [Outcome]: classification of one receive attempt
//   - [ListenState]: state of the continuous receive loop
//   - [Receipt]: what a successful receive produced
//
// # Artifacts
//
// [ArtifactName] builds the name a received file is persisted under.
package domain
