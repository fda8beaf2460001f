package topo

import (
	"os"
	"path/filepath"
	"time"
)

// Epoch is the modification time of a path that doesn't exist
var Epoch = time.Unix(0, 0)

// Files gives access to the modification time of build artifacts
type Files interface {
	// Stat returns the modification time of path and whether it exists.
	// Missing paths report Epoch
	Stat(path string) (time.Time, bool)
}

// FileSystem reads modification times from disk on every call; rebuilt
// targets MUST be seen with their new time
type FileSystem struct {
	// Dir resolves relative paths; empty means the current directory
	Dir string
}

func (fsys FileSystem) Stat(path string) (time.Time, bool) {
	if fsys.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(fsys.Dir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Epoch, false
	}

	return info.ModTime(), true
}
