package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/parser"
)

// ErrNoState is returned by Store.Load when nothing has been persisted yet.
var ErrNoState = errors.New("no persisted state")

// Store persists the single tracker document.
type Store interface {
	Load() (*model.Document, error)
	Save(doc model.Document) error
}

// FileStore keeps the document as one JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store at path, creating the parent directory.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{Path: path}, nil
}

// Load reads and normalizes the stored document.
func (s *FileStore) Load() (*model.Document, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	defer f.Close()
	return parser.Decode(f)
}

// Save writes the document to a temp file and renames it over the old one.
func (s *FileStore) Save(doc model.Document) error {
	data, err := parser.Marshal(doc)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// MemStore keeps the document in memory. Used by tests and by commands that
// must not touch disk.
type MemStore struct {
	Doc   *model.Document
	Saves int
}

func (m *MemStore) Load() (*model.Document, error) {
	if m.Doc == nil {
		return nil, ErrNoState
	}
	d := m.Doc.Clone()
	return &d, nil
}

func (m *MemStore) Save(doc model.Document) error {
	d := doc.Clone()
	m.Doc = &d
	m.Saves++
	return nil
}

// Backup moves an unreadable state file aside so the next save cannot
// overwrite it, and returns the new path.
func (s *FileStore) Backup(now time.Time) (string, error) {
	dst := s.Path + ".corrupt-" + now.Format("20060102-150405")
	if err := os.Rename(s.Path, dst); err != nil {
		return "", fmt.Errorf("back up state: %w", err)
	}
	return dst, nil
}
