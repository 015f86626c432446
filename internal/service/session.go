package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/framebuilder/internal/board"
)

// Store persists the whole board as one unit.
type Store interface {
	Save(ctx context.Context, s board.State) error
	Load(ctx context.Context) (board.State, error)
}

// Session owns the live board and serialises every event against it.
type Session struct {
	mu    sync.Mutex
	state board.State
	drag  *board.DragItem

	store Store
	log   *zap.Logger
	// NewID mints frame and image ids. Defaults to uuid.NewString.
	NewID func() string
}

// NewSession starts from an empty board. store may be nil for an in-memory
// session; log may be nil.
func NewSession(store Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{state: board.Empty(), store: store, log: log, NewID: uuid.NewString}
}

// State returns the current board. The value must be treated as read-only.
func (s *Session) State() board.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Partition splits the library into images placed in a frame and the rest.
func (s *Session) Partition() (used, unused []board.Image) {
	return s.State().Partition()
}

func (s *Session) update(fn func(board.State) board.State) board.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

func (s *Session) AddFrame() board.Frame {
	var f board.Frame
	s.update(func(st board.State) board.State {
		st, f = st.AddFrame(s.NewID())
		return st
	})
	s.log.Debug("frame added", zap.String("frame", f.ID), zap.Int("order", f.OrderID))
	return f
}

func (s *Session) RemoveFrame(frameID string) {
	s.update(func(st board.State) board.State { return st.RemoveFrame(frameID) })
	s.log.Debug("frame removed", zap.String("frame", frameID))
}

func (s *Session) SetCaption(frameID, caption string) {
	s.update(func(st board.State) board.State { return st.SetCaption(frameID, caption) })
}

func (s *Session) RemoveImageFromFrame(frameID, imageID string) {
	s.update(func(st board.State) board.State { return st.RemoveImageFromFrame(frameID, imageID) })
}

// IngestURLs adds every URL found in raw to the library. It returns
// board.ErrNoURLs, leaving the board untouched, when raw holds none.
func (s *Session) IngestURLs(raw string) (board.IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, res, err := s.state.Ingest(raw, s.NewID)
	if err != nil {
		s.log.Info("ingest found no urls")
		return res, err
	}
	s.state = next
	s.log.Info("ingested images", zap.Int("added", len(res.Added)), zap.Int("merged", res.Merged))
	return res, nil
}

func (s *Session) RemoveImage(imageID string) {
	s.update(func(st board.State) board.State { return st.RemoveImage(imageID) })
	s.log.Debug("image removed", zap.String("image", imageID))
}

// Move applies a drop. Unresolvable drops are discarded and report false.
// Any drag in progress ends either way.
func (s *Session) Move(item board.DragItem, target board.DropTarget) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = nil
	next, ok := s.state.Move(item, target)
	if !ok {
		s.log.Debug("drop discarded", zap.Stringer("kind", item.Kind), zap.String("item", item.ID), zap.String("target", target.ID))
		return false
	}
	s.state = next
	return true
}

// BeginDrag records the item being dragged.
func (s *Session) BeginDrag(item board.DragItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = &item
}

func (s *Session) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = nil
}

// Dragging reports the item picked up by BeginDrag, if any.
func (s *Session) Dragging() (board.DragItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return board.DragItem{}, false
	}
	return *s.drag, true
}

// Drop applies the in-progress drag to target.
func (s *Session) Drop(target board.DropTarget) bool {
	item, ok := s.Dragging()
	if !ok {
		return false
	}
	return s.Move(item, target)
}

func (s *Session) ToggleSidebar() bool {
	st := s.update(func(st board.State) board.State {
		st.UI.SidebarOpen = !st.UI.SidebarOpen
		return st
	})
	return st.UI.SidebarOpen
}

func (s *Session) ToggleUsed() bool {
	st := s.update(func(st board.State) board.State {
		st.UI.UsedOpen = !st.UI.UsedOpen
		return st
	})
	return st.UI.UsedOpen
}

var errNoStore = errors.New("session: no store configured")

// Save writes the whole board to the store.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return errNoStore
	}
	st := s.State()
	if err := s.store.Save(ctx, st); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	s.log.Info("board saved", zap.Int("frames", len(st.Frames)), zap.Int("images", len(st.Library)))
	return nil
}

// Load replaces the board with the stored one. On any error the current
// board is kept.
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return errNoStore
	}
	st, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, board.ErrNoSnapshot) {
			s.log.Warn("load failed", zap.Error(err))
		}
		return fmt.Errorf("load board: %w", err)
	}
	s.mu.Lock()
	s.state = st
	s.drag = nil
	s.mu.Unlock()
	s.log.Info("board loaded", zap.Int("frames", len(st.Frames)), zap.Int("images", len(st.Library)))
	return nil
}

// LoadOrEmpty loads the stored board, treating a store that was never
// written as an empty board.
func (s *Session) LoadOrEmpty(ctx context.Context) error {
	if err := s.Load(ctx); err != nil && !errors.Is(err, board.ErrNoSnapshot) {
		return err
	}
	return nil
}

// Reset replaces the board with an empty one and persists that when a store
// is configured.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = board.Empty()
	s.drag = nil
	s.mu.Unlock()
	s.log.Info("board reset")
	if s.store == nil {
		return nil
	}
	return s.Save(ctx)
}

// Replace swaps in a prepared board, e.g. seeded sample data.
func (s *Session) Replace(st board.State) error {
	if err := st.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.drag = nil
	return nil
}
