package board

// ItemKind says what is being dragged.
type ItemKind int

const (
	ItemFrame ItemKind = iota
	ItemLibraryImage
	ItemFrameImage
)

func (k ItemKind) String() string {
	switch k {
	case ItemFrame:
		return "frame"
	case ItemLibraryImage:
		return "image"
	case ItemFrameImage:
		return "frame-image"
	default:
		return "unknown"
	}
}

// DragItem identifies the dragged thing. FrameID is the frame an
// ItemFrameImage was picked up from; it may be stale by drop time.
type DragItem struct {
	Kind    ItemKind
	ID      string
	FrameID string
}

// DropKind says what the pointer was over when the item was released.
type DropKind int

const (
	DropNone DropKind = iota
	// DropFrame is a frame's sortable body.
	DropFrame
	// DropFrameZone is the image drop area inside a frame.
	DropFrameZone
	// DropImage is an image placed inside some frame.
	DropImage
)

// DropTarget is where a drag ended. ID is a frame id for DropFrame and
// DropFrameZone and an image id for DropImage.
type DropTarget struct {
	Kind DropKind
	ID   string
}

// Move is a classified drop event. The only implementations are
// ReorderFramesMove and PlaceImageMove.
type Move interface {
	apply(State) State
}

// ReorderFramesMove moves one frame into another's position.
type ReorderFramesMove struct {
	FromID string
	ToID   string
}

func (m ReorderFramesMove) apply(s State) State { return s.ReorderFrames(m.FromID, m.ToID) }

// PlaceImageMove puts Image into TargetFrameID before TargetImageID, or at the
// end when TargetImageID is empty or absent. SourceFrameID records where the
// image sat when the move was classified, empty when it was unplaced;
// PlaceImage reads the current owner from the board instead.
type PlaceImageMove struct {
	Image         Image
	SourceFrameID string
	TargetFrameID string
	TargetImageID string
}

func (m PlaceImageMove) apply(s State) State { return s.PlaceImage(m) }

// Classify resolves a drag result into a Move. It reports false when the drop
// cannot be tied to a frame or the dragged item no longer exists.
func (s State) Classify(item DragItem, target DropTarget) (Move, bool) {
	switch item.Kind {
	case ItemFrame:
		return s.classifyFrame(item, target)
	case ItemLibraryImage, ItemFrameImage:
		return s.classifyImage(item, target)
	}
	return nil, false
}

func (s State) classifyFrame(item DragItem, target DropTarget) (Move, bool) {
	if s.FrameIndex(item.ID) < 0 {
		return nil, false
	}
	var toID string
	switch target.Kind {
	case DropFrame:
		toID = target.ID
	case DropImage:
		toID = s.OwnerFrame(target.ID)
	default:
		return nil, false
	}
	if s.FrameIndex(toID) < 0 {
		return nil, false
	}
	return ReorderFramesMove{FromID: item.ID, ToID: toID}, true
}

func (s State) classifyImage(item DragItem, target DropTarget) (Move, bool) {
	img, ok := s.FindImage(item.ID)
	if !ok {
		return nil, false
	}

	var targetFrame, targetImage string
	switch target.Kind {
	case DropFrame, DropFrameZone:
		targetFrame = target.ID
	case DropImage:
		targetFrame = s.OwnerFrame(target.ID)
		targetImage = target.ID
	default:
		return nil, false
	}
	if s.FrameIndex(targetFrame) < 0 {
		return nil, false
	}

	// Membership is authoritative: a library drag of a placed image and a
	// frame drag whose origin went stale both resolve to the real owner.
	source := s.OwnerFrame(img.ID)

	move := PlaceImageMove{
		Image:         Image{ID: img.ID, URL: img.URL},
		SourceFrameID: source,
		TargetFrameID: targetFrame,
		TargetImageID: targetImage,
	}
	move.TargetImageID = s.resolveSelfTarget(move)
	return move, true
}

// resolveSelfTarget rewrites a drop of an image onto itself into a drop
// before its current successor so the insertion keeps its position.
func (s State) resolveSelfTarget(m PlaceImageMove) string {
	if m.TargetImageID != m.Image.ID {
		return m.TargetImageID
	}
	f, ok := s.Frame(m.TargetFrameID)
	if !ok {
		return ""
	}
	idx := f.indexOf(m.Image.ID)
	if idx < 0 || idx+1 >= len(f.Images) {
		return ""
	}
	return f.Images[idx+1].ID
}

// PlaceImage applies a placement. A missing target frame leaves the state
// unchanged; otherwise only the target frame and the frame currently holding
// the image change, whatever SourceFrameID says.
func (s State) PlaceImage(m PlaceImageMove) State {
	targetIdx := s.FrameIndex(m.TargetFrameID)
	if targetIdx < 0 || m.Image.ID == "" {
		return s
	}
	m.TargetImageID = s.resolveSelfTarget(m)

	// The board decides where the image sits now; m.SourceFrameID may be
	// stale or empty when the move was built by hand.
	for i, f := range s.Frames {
		if i != targetIdx && f.indexOf(m.Image.ID) >= 0 {
			s = s.withFrame(i, f.without(m.Image.ID))
		}
	}

	target := s.Frames[targetIdx].without(m.Image.ID)

	at := target.indexOf(m.TargetImageID)
	if m.TargetImageID == "" || at < 0 {
		at = len(target.Images)
	}

	images := make([]Image, 0, len(target.Images)+1)
	images = append(images, target.Images[:at]...)
	images = append(images, Image{ID: m.Image.ID, URL: m.Image.URL})
	images = append(images, target.Images[at:]...)
	renumberImages(images)
	target.Images = images

	return s.withFrame(targetIdx, target)
}

// Move classifies and applies a drop in one step. Unresolvable drops return
// the state as given and false.
func (s State) Move(item DragItem, target DropTarget) (State, bool) {
	m, ok := s.Classify(item, target)
	if !ok {
		return s, false
	}
	return m.apply(s), true
}

// Apply runs an already classified move.
func (s State) Apply(m Move) State {
	if m == nil {
		return s
	}
	return m.apply(s)
}
