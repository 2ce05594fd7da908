package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/diodeship/internal/domain"
)

const maxNameAttempts = 1000

// ArtifactFileStore implements ports.ArtifactStore on the local filesystem.
type ArtifactFileStore struct{}

// NewArtifactFileStore creates a new ArtifactFileStore.
func NewArtifactFileStore() *ArtifactFileStore {
	return &ArtifactFileStore{}
}

// Save writes data under dir as domain.ArtifactName(filename, capturedAt).
// The bytes go to a temp file first and are renamed into place, so a
// reader never sees a partial artifact. An existing artifact with the same
// name is never overwritten; a numeric suffix is added instead.
func (s *ArtifactFileStore) Save(dir, filename string, capturedAt time.Time, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %v: %w", dir, err, domain.ErrFilesystem)
	}

	tmp, err := os.CreateTemp(dir, ".diodeship-*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %v: %w", dir, err, domain.ErrFilesystem)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %v: %w", tmpPath, err, domain.ErrFilesystem)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("sync %s: %v: %w", tmpPath, err, domain.ErrFilesystem)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %v: %w", tmpPath, err, domain.ErrFilesystem)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %v: %w", tmpPath, err, domain.ErrFilesystem)
	}

	path, err := freePath(filepath.Join(dir, domain.ArtifactName(filename, capturedAt)))
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("rename to %s: %v: %w", path, err, domain.ErrFilesystem)
	}
	committed = true
	return path, nil
}

// freePath returns path, or path with "_N" inserted before the extension
// when path already exists.
func freePath(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	candidate := path
	for i := 1; i <= maxNameAttempts; i++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %v: %w", candidate, err, domain.ErrFilesystem)
		}
		candidate = base + "_" + strconv.Itoa(i) + ext
	}
	return "", fmt.Errorf("no free name for %s: %w", path, domain.ErrFilesystem)
}
