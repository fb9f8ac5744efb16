package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// rootMarkers identify the root of an fs store.
var rootMarkers = []string{".quire", ".git", "quire.yaml"}

// FindRoot walks upwards from startDir and returns the first directory holding a root marker.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for dir := abs; ; {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("root not found")
}
