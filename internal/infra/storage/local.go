package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store writes uploaded survey photos to a local directory tree, one
// subdirectory per image category. Filenames are generated to be
// collision-resistant: unix-millis timestamp plus a random suffix, keeping
// the original extension.
type Store struct {
	baseDir      string
	publicPrefix string
}

func NewStore(baseDir, publicPrefix string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("uploads dir is empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{baseDir: baseDir, publicPrefix: strings.TrimSuffix(publicPrefix, "/")}, nil
}

// GenerateName returns a disk-unique filename for the given original name.
func (s *Store) GenerateName(originalName string) string {
	suffix := make([]byte, 6)
	_, _ = rand.Read(suffix)
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), hex.EncodeToString(suffix), ext)
}

// Save writes data under <base>/<category>/<storedName> and returns the
// public URL path for the file.
func (s *Store) Save(category, storedName string, data []byte) (string, error) {
	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create category dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, storedName), data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.URL(category, storedName), nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(category, storedName string) error {
	err := os.Remove(filepath.Join(s.baseDir, category, storedName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) URL(category, storedName string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicPrefix, category, storedName)
}

func (s *Store) BaseDir() string { return s.baseDir }
