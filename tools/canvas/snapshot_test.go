package canvas

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaTypeFor(t *testing.T) {
	tests := map[string]string{
		"canvas.png":     "image/png",
		"canvas.JPG":     "image/jpeg",
		"canvas.jpeg":    "image/jpeg",
		"canvas.webp":    "image/webp",
		"canvas.unknown": "image/png",
		"dir/canvas.gif": "image/gif",
		"no_extension":   "image/png",
	}
	for path, want := range tests {
		assert.Equal(t, want, MediaTypeFor(path), path)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.png")
	require.NoError(t, os.WriteFile(path, []byte("fake png bytes"), 0644))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", snap.MediaType)

	decoded, err := base64.StdEncoding.DecodeString(snap.Data)
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(decoded))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}
