package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/framebuilder/internal/board"
)

const snapshotVersion = 1

type snapshotFile struct {
	Version int         `json:"version"`
	State   board.State `json:"state"`
}

// SnapshotFile stores the whole board as one JSON document.
type SnapshotFile struct {
	Path string
}

func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{Path: path}
}

// Save writes the state atomically (temp file then rename).
func (f *SnapshotFile) Save(_ context.Context, s board.State) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshotFile{Version: snapshotVersion, State: s}, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// Load reads and validates the snapshot. A missing file yields
// board.ErrNoSnapshot.
func (f *SnapshotFile) Load(_ context.Context) (board.State, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return board.State{}, board.ErrNoSnapshot
		}
		return board.State{}, err
	}
	var sf snapshotFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return board.State{}, fmt.Errorf("decode snapshot %s: %w", f.Path, err)
	}
	if sf.Version != snapshotVersion {
		return board.State{}, fmt.Errorf("snapshot %s: unsupported version %d", f.Path, sf.Version)
	}
	s := sf.State
	if s.Frames == nil {
		s.Frames = []board.Frame{}
	}
	if s.Library == nil {
		s.Library = []board.Image{}
	}
	for i := range s.Frames {
		if s.Frames[i].Images == nil {
			s.Frames[i].Images = []board.Image{}
		}
	}
	if err := s.Validate(); err != nil {
		return board.State{}, fmt.Errorf("snapshot %s: %w", f.Path, err)
	}
	return s, nil
}
