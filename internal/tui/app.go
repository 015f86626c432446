// Package tui is the terminal front end: frames on the left, the image
// library in a collapsible sidebar, and keyboard drag and drop between them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/framebuilder/internal/board"
	"github.com/jask/framebuilder/internal/config"
	"github.com/jask/framebuilder/internal/render"
	"github.com/jask/framebuilder/internal/service"
)

type focus int

const (
	focusFrames focus = iota
	focusLibrary
)

type modalState string

const (
	modalNone         modalState = ""
	modalCaption      modalState = "caption"
	modalURLs         modalState = "urls"
	modalConfirmReset modalState = "confirmReset"
)

// Deps are the collaborators the App drives.
type Deps struct {
	Session   *service.Session
	Exporter  *service.Exporter
	Clipboard service.Clipboard
	// StoryboardPath is where the PNG export is written.
	StoryboardPath string
	// SaveFormat persists a changed export format; nil keeps it in memory.
	SaveFormat func(format string) error
	Log        *zap.Logger
}

// App is the bubbletea model.
type App struct {
	ctx  context.Context
	cfg  config.Config
	deps Deps
	keys keyMap

	focus      focus
	frameIdx   int
	imageIdx   int // -1 selects the frame itself
	libraryIdx int

	modal   modalState
	caption textinput.Model
	urls    textarea.Model
	status  string
	errored bool

	width, height int
}

type statusMsg string

type errMsg struct{ error }

type loadedMsg struct{}

type resetMsg struct{}

func New(ctx context.Context, cfg config.Config, deps Deps) *App {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = service.SystemClipboard()
	}
	ti := textinput.New()
	ti.Placeholder = "Caption"
	ti.CharLimit = 2000
	ti.Width = 60

	ta := textarea.New()
	ta.Placeholder = "Paste image URLs (ctrl+v pastes the clipboard, ctrl+s adds)"
	ta.ShowLineNumbers = false
	ta.SetWidth(72)
	ta.SetHeight(6)

	return &App{
		ctx:      ctx,
		cfg:      cfg,
		deps:     deps,
		keys:     defaultKeys(),
		imageIdx: -1,
		caption:  ti,
		urls:     ta,
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) session() *service.Session { return a.deps.Session }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.urls.SetWidth(max(20, min(m.Width-8, 100)))
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleKey(m)
	case statusMsg:
		a.setStatus(string(m))
	case errMsg:
		a.setError(m.error)
	case loadedMsg:
		a.clamp()
		a.setStatus("Board loaded")
	case resetMsg:
		a.frameIdx, a.imageIdx, a.libraryIdx = 0, -1, 0
		a.clamp()
		a.setStatus("Board reset")
	}
	return a, nil
}

func (a *App) setStatus(s string) {
	a.status, a.errored = s, false
}

func (a *App) setError(err error) {
	a.deps.Log.Warn("tui action failed", zap.Error(err))
	a.status, a.errored = err.Error(), true
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := a.session()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(m, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(m, a.keys.Left):
		if a.focus == focusFrames && a.imageIdx > -1 {
			a.imageIdx--
		}
	case key.Matches(m, a.keys.Right):
		if f, ok := a.currentFrame(); ok && a.focus == focusFrames && a.imageIdx < len(f.Images)-1 {
			a.imageIdx++
		}
	case key.Matches(m, a.keys.Focus):
		if a.focus == focusFrames && s.State().UI.SidebarOpen {
			a.focus = focusLibrary
		} else {
			a.focus = focusFrames
		}
	case key.Matches(m, a.keys.NewFrame):
		f := s.AddFrame()
		a.frameIdx, a.imageIdx, a.focus = f.OrderID, -1, focusFrames
		a.setStatus(fmt.Sprintf("Frame %d added", f.OrderID+1))
	case key.Matches(m, a.keys.Caption):
		if f, ok := a.currentFrame(); ok {
			a.caption.SetValue(f.Caption)
			a.caption.CursorEnd()
			a.modal = modalCaption
			return a, a.caption.Focus()
		}
	case key.Matches(m, a.keys.AddURLs):
		a.urls.Reset()
		a.modal = modalURLs
		return a, a.urls.Focus()
	case key.Matches(m, a.keys.PasteURLs):
		text, err := a.deps.Clipboard.ReadAll()
		if err != nil {
			a.setError(fmt.Errorf("read clipboard: %w", err))
			return a, nil
		}
		a.ingest(text)
	case key.Matches(m, a.keys.Remove):
		a.remove()
	case key.Matches(m, a.keys.Pick):
		a.pick()
	case key.Matches(m, a.keys.Drop):
		a.drop()
	case key.Matches(m, a.keys.Cancel):
		if _, ok := s.Dragging(); ok {
			s.CancelDrag()
			a.setStatus("Drag cancelled")
		}
	case key.Matches(m, a.keys.Export):
		a.export()
	case key.Matches(m, a.keys.ExportFormat):
		return a, a.cycleFormat()
	case key.Matches(m, a.keys.Storyboard):
		return a, a.storyboardCmd()
	case key.Matches(m, a.keys.Save):
		return a, a.saveCmd()
	case key.Matches(m, a.keys.Load):
		return a, a.loadCmd()
	case key.Matches(m, a.keys.Reset):
		a.modal = modalConfirmReset
	case key.Matches(m, a.keys.ToggleSidebar):
		if !s.ToggleSidebar() {
			a.focus = focusFrames
		}
	case key.Matches(m, a.keys.ToggleUsed):
		s.ToggleUsed()
		a.clamp()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalCaption:
		switch m.String() {
		case "esc":
			a.caption.Blur()
			a.modal = modalNone
			return a, nil
		case "enter":
			if f, ok := a.currentFrame(); ok {
				a.session().SetCaption(f.ID, a.caption.Value())
				a.setStatus("Caption updated")
			}
			a.caption.Blur()
			a.modal = modalNone
			return a, nil
		}
		var cmd tea.Cmd
		a.caption, cmd = a.caption.Update(m)
		return a, cmd
	case modalURLs:
		switch m.String() {
		case "esc":
			a.urls.Blur()
			a.modal = modalNone
			return a, nil
		case "ctrl+s":
			text := a.urls.Value()
			a.urls.Blur()
			a.modal = modalNone
			a.ingest(text)
			return a, nil
		case "ctrl+v":
			text, err := a.deps.Clipboard.ReadAll()
			if err != nil {
				a.setError(fmt.Errorf("read clipboard: %w", err))
				return a, nil
			}
			a.urls.InsertString(text)
			return a, nil
		}
		var cmd tea.Cmd
		a.urls, cmd = a.urls.Update(m)
		return a, cmd
	case modalConfirmReset:
		a.modal = modalNone
		if m.String() == "y" {
			return a, a.resetCmd()
		}
		a.setStatus("Reset cancelled")
	}
	return a, nil
}

func (a *App) ingest(text string) {
	res, err := a.session().IngestURLs(text)
	if errors.Is(err, board.ErrNoURLs) {
		a.setStatus("No URLs found.")
		return
	}
	if err != nil {
		a.setError(err)
		return
	}
	var parts []string
	if n := len(res.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d images added", n))
	}
	if res.Merged > 0 {
		parts = append(parts, fmt.Sprintf("%d images were already added, updating size variants", res.Merged))
	}
	a.setStatus(strings.Join(parts, "; "))
}

// libraryItems lists the sidebar rows: unused images, then the used ones
// when that section is open.
func (a *App) libraryItems() (items []board.Image, usedFrom int) {
	used, unused := a.session().Partition()
	items = append(items, unused...)
	usedFrom = len(items)
	if a.session().State().UI.UsedOpen {
		items = append(items, used...)
	}
	return items, usedFrom
}

func (a *App) currentFrame() (board.Frame, bool) {
	frames := a.session().State().Frames
	if a.frameIdx < 0 || a.frameIdx >= len(frames) {
		return board.Frame{}, false
	}
	return frames[a.frameIdx], true
}

func (a *App) currentLibraryImage() (board.Image, bool) {
	items, _ := a.libraryItems()
	if a.libraryIdx < 0 || a.libraryIdx >= len(items) {
		return board.Image{}, false
	}
	return items[a.libraryIdx], true
}

// selectedImage is the image under the cursor in either pane.
func (a *App) selectedImage() (board.Image, bool) {
	if a.focus == focusLibrary {
		return a.currentLibraryImage()
	}
	f, ok := a.currentFrame()
	if !ok || a.imageIdx < 0 || a.imageIdx >= len(f.Images) {
		return board.Image{}, false
	}
	return a.session().State().FindImage(f.Images[a.imageIdx].ID)
}

func (a *App) moveCursor(delta int) {
	if a.focus == focusLibrary {
		a.libraryIdx += delta
	} else {
		a.frameIdx += delta
		a.imageIdx = -1
	}
	a.clamp()
}

func (a *App) clamp() {
	st := a.session().State()
	a.frameIdx = clampIndex(a.frameIdx, len(st.Frames))
	if f, ok := a.currentFrame(); ok {
		a.imageIdx = max(-1, min(a.imageIdx, len(f.Images)-1))
	} else {
		a.imageIdx = -1
	}
	items, _ := a.libraryItems()
	a.libraryIdx = clampIndex(a.libraryIdx, len(items))
	if !st.UI.SidebarOpen {
		a.focus = focusFrames
	}
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (a *App) remove() {
	s := a.session()
	if a.focus == focusLibrary {
		if img, ok := a.currentLibraryImage(); ok {
			s.RemoveImage(img.ID)
			a.clamp()
			a.setStatus("Image removed")
		}
		return
	}
	f, ok := a.currentFrame()
	if !ok {
		return
	}
	if a.imageIdx >= 0 && a.imageIdx < len(f.Images) {
		s.RemoveImageFromFrame(f.ID, f.Images[a.imageIdx].ID)
		a.clamp()
		a.setStatus("Image returned to library")
		return
	}
	s.RemoveFrame(f.ID)
	a.clamp()
	a.setStatus("Frame removed")
}

// pick starts a drag for the item under the cursor.
func (a *App) pick() {
	s := a.session()
	var item board.DragItem
	switch {
	case a.focus == focusLibrary:
		img, ok := a.currentLibraryImage()
		if !ok {
			return
		}
		item = board.DragItem{Kind: board.ItemLibraryImage, ID: img.ID}
	default:
		f, ok := a.currentFrame()
		if !ok {
			return
		}
		if a.imageIdx >= 0 && a.imageIdx < len(f.Images) {
			item = board.DragItem{Kind: board.ItemFrameImage, ID: f.Images[a.imageIdx].ID, FrameID: f.ID}
		} else {
			item = board.DragItem{Kind: board.ItemFrame, ID: f.ID}
		}
	}
	s.BeginDrag(item)
	a.setStatus("Picked up " + item.Kind.String() + "; move to a frame and press enter")
}

// dropTarget maps the cursor to the drop target under it.
func (a *App) dropTarget(item board.DragItem) board.DropTarget {
	if a.focus != focusFrames {
		return board.DropTarget{}
	}
	f, ok := a.currentFrame()
	if !ok {
		return board.DropTarget{}
	}
	if a.imageIdx >= 0 && a.imageIdx < len(f.Images) {
		return board.DropTarget{Kind: board.DropImage, ID: f.Images[a.imageIdx].ID}
	}
	if item.Kind == board.ItemFrame {
		return board.DropTarget{Kind: board.DropFrame, ID: f.ID}
	}
	return board.DropTarget{Kind: board.DropFrameZone, ID: f.ID}
}

func (a *App) drop() {
	s := a.session()
	item, ok := s.Dragging()
	if !ok {
		return
	}
	target := a.dropTarget(item)
	if !s.Drop(target) {
		a.deps.Log.Debug("drop rejected",
			zap.Stringer("item", item.Kind),
			zap.String("item_id", item.ID),
			zap.Int("target_kind", int(target.Kind)),
			zap.String("target_id", target.ID))
		a.setStatus("Nothing to drop onto here")
		return
	}
	if item.Kind == board.ItemFrame {
		if f, ok := s.State().Frame(item.ID); ok {
			a.frameIdx = f.OrderID
		}
	}
	a.clamp()
	a.setStatus("Moved")
}

func (a *App) export() {
	if a.deps.Exporter == nil {
		a.setError(errors.New("export not configured"))
		return
	}
	res, err := a.deps.Exporter.Export(a.session().State(), a.cfg.Export.Clipboard)
	if err != nil {
		a.setError(err)
		return
	}
	a.deps.Log.Info("board exported",
		zap.Int("frames", len(res.Document)),
		zap.String("format", a.deps.Exporter.Format),
		zap.Bool("copied", res.Copied))
	switch {
	case res.CopyErr != nil:
		a.setError(fmt.Errorf("exported %d frames but %w", len(res.Document), res.CopyErr))
	case res.Copied:
		a.setStatus(fmt.Sprintf("Exported %d frames to clipboard", len(res.Document)))
	default:
		a.setStatus(fmt.Sprintf("Exported %d frames", len(res.Document)))
	}
}

// cycleFormat flips the export format between json and yaml and persists
// the choice.
func (a *App) cycleFormat() tea.Cmd {
	next := "yaml"
	if strings.EqualFold(a.cfg.Export.Format, "yaml") {
		next = "json"
	}
	a.cfg.Export.Format = next
	if a.deps.Exporter != nil {
		a.deps.Exporter.Format = next
	}
	save := a.deps.SaveFormat
	return func() tea.Msg {
		if save != nil {
			if err := save(next); err != nil {
				return errMsg{fmt.Errorf("save export format: %w", err)}
			}
		}
		return statusMsg("Export format: " + next)
	}
}

func (a *App) storyboardCmd() tea.Cmd {
	doc := board.Export(a.session().State())
	path := a.deps.StoryboardPath
	return func() tea.Msg {
		if path == "" {
			return errMsg{errors.New("storyboard path not configured")}
		}
		if err := render.SavePNG(path, doc); err != nil {
			return errMsg{fmt.Errorf("storyboard: %w", err)}
		}
		return statusMsg("Storyboard written to " + path)
	}
}

func (a *App) saveCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.session().Save(a.ctx); err != nil {
			return errMsg{err}
		}
		return statusMsg("Board saved")
	}
}

func (a *App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.session().Load(a.ctx); err != nil {
			if errors.Is(err, board.ErrNoSnapshot) {
				return statusMsg("Nothing saved yet")
			}
			return errMsg{err}
		}
		return loadedMsg{}
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.session().Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return resetMsg{}
	}
}
