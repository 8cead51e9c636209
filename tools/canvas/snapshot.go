// Package canvas supplies canvas snapshots for prompt context.
package canvas

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Snapshot is one captured canvas image, base64-encoded for API transmission.
type Snapshot struct {
	Path      string
	MediaType string
	Data      string // base64 payload
}

var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// MediaTypeFor returns the media type for an image path, defaulting to PNG.
func MediaTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := mediaTypes[ext]; ok {
		return mt
	}
	return "image/png"
}

// Load reads an image file and encodes it as a snapshot.
func Load(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read canvas image: %w", err)
	}
	return &Snapshot{
		Path:      path,
		MediaType: MediaTypeFor(path),
		Data:      base64.StdEncoding.EncodeToString(raw),
	}, nil
}
