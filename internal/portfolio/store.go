package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"PortfolioTracker/internal/model"
)

// Store loads and saves the whole portfolio.
type Store interface {
	Load() (model.Portfolio, error)
	Save(p model.Portfolio) error
}

// FileStore keeps the portfolio in an indented JSON file.
type FileStore struct {
	Path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the portfolio. Returns an empty portfolio if the file doesn't exist.
func (s *FileStore) Load() (model.Portfolio, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Portfolio{}, nil
		}
		return nil, fmt.Errorf("read portfolio: %w", err)
	}

	var raw map[string]model.Position
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStorageCorrupt, s.Path, err)
	}

	p := make(model.Portfolio, len(raw))
	for key, pos := range raw {
		sym, err := NormalizeSymbol(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrStorageCorrupt, s.Path, err)
		}
		if _, dup := p[sym]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate symbol %s", ErrStorageCorrupt, s.Path, sym)
		}
		p[sym] = pos
	}
	return p, nil
}

// Save overwrites the file with the whole portfolio. The new content is written
// to a temp file in the same directory and renamed into place.
func (s *FileStore) Save(p model.Portfolio) error {
	if p == nil {
		p = model.Portfolio{}
	}
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrStorageWrite, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create dir: %v", ErrStorageWrite, err)
	}

	tmp, err := os.CreateTemp(dir, ".portfolio-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrStorageWrite, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write temp file: %v", ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp file: %v", ErrStorageWrite, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: chmod temp file: %v", ErrStorageWrite, err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename temp file: %v", ErrStorageWrite, err)
	}
	return nil
}
