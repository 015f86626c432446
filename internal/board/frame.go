package board

// Frame is one captioned slot in the sequence.
type Frame struct {
	ID      string  `json:"id"`
	OrderID int     `json:"orderId"`
	Caption string  `json:"caption"`
	Images  []Image `json:"images"`
}

func (f Frame) indexOf(imageID string) int {
	for i := range f.Images {
		if f.Images[i].ID == imageID {
			return i
		}
	}
	return -1
}

// Contains reports whether the frame holds imageID.
func (f Frame) Contains(imageID string) bool {
	return f.indexOf(imageID) >= 0
}

// without returns a copy of f with imageID removed and the rest renumbered.
func (f Frame) without(imageID string) Frame {
	idx := f.indexOf(imageID)
	if idx < 0 {
		return f
	}
	images := make([]Image, 0, len(f.Images)-1)
	images = append(images, f.Images[:idx]...)
	images = append(images, f.Images[idx+1:]...)
	renumberImages(images)
	f.Images = images
	return f
}

// AddFrame appends an empty frame with the given id.
func (s State) AddFrame(id string) (State, Frame) {
	f := Frame{ID: id, OrderID: len(s.Frames), Images: []Image{}}
	frames := make([]Frame, len(s.Frames), len(s.Frames)+1)
	copy(frames, s.Frames)
	s.Frames = append(frames, f)
	return s, f
}

// RemoveFrame deletes a frame and its placements. The images stay in the
// library and become unused.
func (s State) RemoveFrame(frameID string) State {
	idx := s.FrameIndex(frameID)
	if idx < 0 {
		return s
	}
	frames := make([]Frame, 0, len(s.Frames)-1)
	frames = append(frames, s.Frames[:idx]...)
	frames = append(frames, s.Frames[idx+1:]...)
	renumberFrames(frames)
	s.Frames = frames
	return s
}

// SetCaption replaces a frame's caption.
func (s State) SetCaption(frameID, caption string) State {
	idx := s.FrameIndex(frameID)
	if idx < 0 {
		return s
	}
	f := s.Frames[idx]
	f.Caption = caption
	return s.withFrame(idx, f)
}

// ReorderFrames moves fromID into the position currently held by toID and
// renumbers every frame. Moving down lands after toID, moving up lands
// before it, matching a stable array move.
func (s State) ReorderFrames(fromID, toID string) State {
	if fromID == toID {
		return s
	}
	from, to := s.FrameIndex(fromID), s.FrameIndex(toID)
	if from < 0 || to < 0 {
		return s
	}
	frames := make([]Frame, 0, len(s.Frames))
	moving := s.Frames[from]
	for i, f := range s.Frames {
		if i == from {
			continue
		}
		if i == to && from > to {
			frames = append(frames, moving)
		}
		frames = append(frames, f)
		if i == to && from < to {
			frames = append(frames, moving)
		}
	}
	renumberFrames(frames)
	s.Frames = frames
	return s
}

// RemoveImageFromFrame drops a placement. The image stays in the library.
func (s State) RemoveImageFromFrame(frameID, imageID string) State {
	idx := s.FrameIndex(frameID)
	if idx < 0 || !s.Frames[idx].Contains(imageID) {
		return s
	}
	return s.withFrame(idx, s.Frames[idx].without(imageID))
}
