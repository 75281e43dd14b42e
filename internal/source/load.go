package source

import (
	"fmt"
	"os"

	"github.com/shantanuraj/roulette/internal/imagemap"
)

// Load returns the startup mapping text. An empty path selects the map
// embedded in the binary.
func Load(path string) (string, error) {
	if path == "" {
		return imagemap.Embedded, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("source: read %q: %w", path, err)
	}
	return string(data), nil
}
