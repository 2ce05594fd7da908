package domain

import (
	"strings"
	"time"
)

// ArtifactPrefix starts the name of every file written by the receiver.
const ArtifactPrefix = "decoded_"

// ArtifactTimeLayout formats the capture timestamp (always UTC).
const ArtifactTimeLayout = "20060102_150405"

// ArtifactName returns the file name a received file is persisted under:
// decoded_<UTC timestamp>_<filename>.
func ArtifactName(received string, capturedAt time.Time) string {
	return ArtifactPrefix + capturedAt.UTC().Format(ArtifactTimeLayout) + "_" + SafeFilename(received)
}

// SafeFilename keeps a received name inside the output directory.
// Path separators and NUL become '_'; an empty name becomes "unnamed".
func SafeFilename(name string) string {
	if name == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
}
