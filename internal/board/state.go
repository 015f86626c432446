// Package board holds the frame/image ordering model: the image library, the
// ordered frames, the placement rules that turn drop events into the next
// state, and the export projection.
//
// Every operation is a value transformation: it takes a State and returns the
// next State without mutating the receiver. Slices that an operation does not
// touch are shared between the old and new state, so unaffected frames keep
// their identity.
package board

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState marks a state that violates an ordering or membership invariant.
	ErrInvalidState = errors.New("board: invalid state")
	// ErrNoSnapshot is returned by stores that have never been saved to.
	ErrNoSnapshot = errors.New("board: no saved snapshot")
)

// State is the root aggregate saved, loaded and reset as a unit.
type State struct {
	Frames  []Frame `json:"frames"`
	Library []Image `json:"library"`
	UI      UIState `json:"ui"`
}

// UIState carries chrome flags that travel with the snapshot.
type UIState struct {
	SidebarOpen bool `json:"sidebarOpen"`
	UsedOpen    bool `json:"usedOpen"`
}

// Empty returns a state with no frames and no images.
func Empty() State {
	return State{Frames: []Frame{}, Library: []Image{}, UI: UIState{SidebarOpen: true}}
}

// Validate checks density of every order index, that no image sits in two
// frames, that placed images exist in the library and that no two library
// images share a base identity.
func (s State) Validate() error {
	seenFrames := make(map[string]struct{}, len(s.Frames))
	for i, f := range s.Frames {
		if f.ID == "" {
			return fmt.Errorf("%w: frame %d has no id", ErrInvalidState, i)
		}
		if _, dup := seenFrames[f.ID]; dup {
			return fmt.Errorf("%w: duplicate frame %s", ErrInvalidState, f.ID)
		}
		seenFrames[f.ID] = struct{}{}
		if f.OrderID != i {
			return fmt.Errorf("%w: frame %s has order %d at position %d", ErrInvalidState, f.ID, f.OrderID, i)
		}
	}

	library := make(map[string]struct{}, len(s.Library))
	bases := make(map[string]string, len(s.Library))
	for i, img := range s.Library {
		if img.ID == "" || img.URL == "" {
			return fmt.Errorf("%w: library image %d is missing id or url", ErrInvalidState, i)
		}
		if _, dup := library[img.ID]; dup {
			return fmt.Errorf("%w: duplicate library image %s", ErrInvalidState, img.ID)
		}
		library[img.ID] = struct{}{}
		if img.OrderID != i {
			return fmt.Errorf("%w: library image %s has order %d at position %d", ErrInvalidState, img.ID, img.OrderID, i)
		}
		base := BaseIdentity(img.URL)
		if other, dup := bases[base]; dup {
			return fmt.Errorf("%w: images %s and %s share base %q", ErrInvalidState, other, img.ID, base)
		}
		bases[base] = img.ID
	}

	placed := make(map[string]string)
	for _, f := range s.Frames {
		for j, img := range f.Images {
			if img.OrderID != j {
				return fmt.Errorf("%w: image %s in frame %s has order %d at position %d", ErrInvalidState, img.ID, f.ID, img.OrderID, j)
			}
			if owner, dup := placed[img.ID]; dup {
				return fmt.Errorf("%w: image %s placed in frames %s and %s", ErrInvalidState, img.ID, owner, f.ID)
			}
			placed[img.ID] = f.ID
			if _, ok := library[img.ID]; !ok {
				return fmt.Errorf("%w: image %s in frame %s is not in the library", ErrInvalidState, img.ID, f.ID)
			}
		}
	}
	return nil
}

// FrameIndex returns the position of the frame or -1.
func (s State) FrameIndex(frameID string) int {
	for i := range s.Frames {
		if s.Frames[i].ID == frameID {
			return i
		}
	}
	return -1
}

// Frame returns the frame with the given id.
func (s State) Frame(frameID string) (Frame, bool) {
	if i := s.FrameIndex(frameID); i >= 0 {
		return s.Frames[i], true
	}
	return Frame{}, false
}

// withFrame returns a copy of s whose frame at index i is replaced by f. Only
// the frames slice header is copied; other frames keep their image slices.
func (s State) withFrame(i int, f Frame) State {
	frames := make([]Frame, len(s.Frames))
	copy(frames, s.Frames)
	frames[i] = f
	s.Frames = frames
	return s
}

func renumberFrames(frames []Frame) {
	for i := range frames {
		frames[i].OrderID = i
	}
}

func renumberImages(images []Image) {
	for i := range images {
		images[i].OrderID = i
	}
}
