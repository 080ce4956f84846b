package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/quietpawn/gambit/internal/domain"
)

// FileStore keeps the saved session in a single INI file, written atomically
// via a temp file rename.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("save path is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &FileStore{path: path, logger: logger}, nil
}

func (f *FileStore) Save(ctx context.Context, snap domain.SessionSnapshot) error {
	prior, err := os.ReadFile(f.path)
	if err != nil {
		prior = nil
	}

	data, err := Encode(snap, prior)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create save dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	f.logger.Debug("session saved",
		zap.String("path", f.path),
		zap.Int("moves", len(snap.MovesUCI)))
	return nil
}

func (f *FileStore) Load(ctx context.Context) (domain.SessionSnapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.SessionSnapshot{}, ErrNoSession
	}
	if err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("read session file: %w", err)
	}
	return Decode(data)
}

func (f *FileStore) Clear(ctx context.Context) error {
	prior, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}

	out, ok := Strip(prior)
	if !ok {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
