package desktop

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"
)

var stopColourPattern = regexp.MustCompile(`stop-color:(#[0-9a-zA-Z]{6})`)

// IconUpdater recolours an SVG icon theme. The colours currently in use are
// read from the gradient stops of two reference icons.
type IconUpdater struct {
	Theme         string
	PrimaryIcon   string
	SecondaryIcon string
	Logger        hclog.Logger
}

// ExtractStopColour returns the first gradient stop colour in an SVG file.
func ExtractStopColour(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open icon: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if m := stopColourPattern.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read icon %s: %w", path, err)
	}
	return "", fmt.Errorf("unable to determine icon colour of %s", path)
}

// Update replaces the current primary and secondary colours in every SVG of
// the theme and returns the number of files checked.
func (u *IconUpdater) Update(primary, secondary string) (int, error) {
	logger := u.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	oldPrimary, err := ExtractStopColour(filepath.Join(u.Theme, u.PrimaryIcon))
	if err != nil {
		return 0, err
	}
	oldSecondary, err := ExtractStopColour(filepath.Join(u.Theme, u.SecondaryIcon))
	if err != nil {
		return 0, err
	}
	logger.Debug("old icon colours", "primary", oldPrimary, "secondary", oldSecondary)

	// Both replacements happen in a single pass so a new primary equal to the
	// old secondary is not replaced twice.
	replacer := strings.NewReplacer(oldPrimary, primary, oldSecondary, secondary)

	count := 0
	err = filepath.WalkDir(u.Theme, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".svg") || !d.Type().IsRegular() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		count++

		updated := replacer.Replace(string(content))
		if updated == string(content) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	logger.Info("checked icon files", "count", count)
	return count, nil
}
