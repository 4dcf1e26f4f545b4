package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore сохраняет файлы резюме на локальный диск под baseDir.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

// Save writes data to baseDir/name and returns the file path.
func (s *LocalStore) Save(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validName(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	clean := filepath.Clean("/" + filepath.FromSlash(name))
	dst := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("mkdir upload dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return dst, nil
}

// Delete removes a file previously returned by Save. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, err := filepath.Rel(s.baseDir, location)
	if err != nil || rel == "." || !validName(rel) {
		return fmt.Errorf("location %q is outside upload dir", location)
	}
	if err := os.Remove(location); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func validName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
