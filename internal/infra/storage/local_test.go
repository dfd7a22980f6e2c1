package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "/uploads/")
	require.NoError(t, err)
	return s
}

func TestNewStoreRejectsEmptyDir(t *testing.T) {
	_, err := NewStore("", "/uploads")
	assert.Error(t, err)
}

func TestGenerateNameKeepsExtension(t *testing.T) {
	s := newTestStore(t)

	name := s.GenerateName("Front View.JPG")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, " ")

	// Names must not collide across calls.
	assert.NotEqual(t, name, s.GenerateName("Front View.JPG"))
}

func TestSaveAndRemove(t *testing.T) {
	s := newTestStore(t)

	url, err := s.Save("front_view", "file.png", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/front_view/file.png", url)

	path := filepath.Join(s.BaseDir(), "front_view", "file.png")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), content)

	require.NoError(t, s.Remove("front_view", "file.png"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing a missing file is not an error.
	assert.NoError(t, s.Remove("front_view", "file.png"))
}
