package desktop

import (
	"fmt"
	"os"
	"path/filepath"
)

// InstallVimScheme writes a vim colour scheme named after the theme into dir.
func InstallVimScheme(dir, theme string, scheme []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, theme+".vim")
	if err := os.WriteFile(path, scheme, 0o644); err != nil {
		return "", fmt.Errorf("failed to save vim colour scheme: %w", err)
	}
	return path, nil
}
