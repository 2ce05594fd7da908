package ports

import "time"

// ArtifactStore persists a received file.
type ArtifactStore interface {
	// Save writes data as the artifact for filename captured at the given
	// time inside dir, creating dir if needed, and returns the final path.
	Save(dir, filename string, capturedAt time.Time, data []byte) (string, error)
}
