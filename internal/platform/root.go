package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigNames are the file names recognised as client configuration.
var ConfigNames = []string{"notehub.yaml", "notehub.yml"}

// ConfigPattern matches ConfigNames.
const ConfigPattern = "notehub.{yaml,yml}"

var ErrConfigNotFound = errors.New("config file not found")

// FindConfig looks upwards from startDir for a config file and returns its
// absolute path.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, name := range ConfigNames {
			if hasFile(dir, name) {
				return filepath.Join(dir, name), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", ErrConfigNotFound
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
