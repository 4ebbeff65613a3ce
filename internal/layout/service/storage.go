package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// Export Storage
// ============================================================

type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) ProjectDir(projectID string) string {
	return filepath.Join(s.root, filepath.Base(projectID))
}

func (s *FileStorage) SVGPath(projectID string) string {
	return filepath.Join(s.ProjectDir(projectID), "layout.svg")
}

func (s *FileStorage) JSONPath(projectID string) string {
	return filepath.Join(s.ProjectDir(projectID), "canvas.json")
}

func (s *FileStorage) EnsureDir(projectID string) error {
	path := s.ProjectDir(projectID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir project dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(projectID, target string, data []byte) error {
	if err := s.EnsureDir(projectID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}
