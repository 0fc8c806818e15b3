// Package export turns a board into files and links.
package export

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const shareFragment = "drawing="

// ShareLink embeds a PNG data URL in the fragment of base.
func ShareLink(base, dataURL string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + shareFragment + url.QueryEscape(dataURL)
}

// ParseShareLink extracts the data URL from a link made by ShareLink.
func ParseShareLink(link string) (string, bool) {
	i := strings.Index(link, "#"+shareFragment)
	if i < 0 {
		return "", false
	}
	dataURL, err := url.QueryUnescape(link[i+1+len(shareFragment):])
	if err != nil || dataURL == "" {
		return "", false
	}
	return dataURL, true
}

// ToFile creates path and hands it to write. A failed write removes the
// partial file.
func ToFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
