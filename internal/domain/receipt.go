package domain

// Receipt describes one frame that was received, corrected and persisted.
type Receipt struct {
	// Path is where the artifact was written.
	Path string
	// Filename is the name carried by the frame, lossily decoded.
	Filename string
	// PayloadBytes is the size of the decoded file.
	PayloadBytes int
	// EncodedBytes is the size of the FEC-encoded payload on the wire.
	EncodedBytes int
	// Corrected is the number of symbols the FEC decoder repaired.
	Corrected int
	// Fingerprint is the CRC-16/MODBUS of the decoded file. It is only
	// logged so both sides of the link can be correlated.
	Fingerprint uint16
}
