package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jask/framebuilder/internal/board"
	"github.com/jask/framebuilder/internal/config"
	"github.com/jask/framebuilder/internal/prefs"
	"github.com/jask/framebuilder/internal/service"
)

type fakeClipboard struct {
	text     string
	readErr  error
	writeErr error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.text = text
	return nil
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.readErr }

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

type harness struct {
	app  *App
	sess *service.Session
	clip *fakeClipboard
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := prefs.NewSnapshotFile(filepath.Join(t.TempDir(), "snap.json"))
	sess := service.NewSession(store, nil)
	n := 0
	sess.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	clip := &fakeClipboard{}
	cfg := config.Config{}
	cfg.Export.Format = "json"
	cfg.Export.Clipboard = true
	cfg.UI.URLWidth = 40
	app := New(context.Background(), cfg, Deps{
		Session:        sess,
		Exporter:       &service.Exporter{Format: "json", Clipboard: clip},
		Clipboard:      clip,
		StoryboardPath: filepath.Join(t.TempDir(), "board.png"),
	})
	return &harness{app: app, sess: sess, clip: clip}
}

func (h *harness) press(t *testing.T, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = h.app.Update(keyMsg(k))
	}
	return cmd
}

// run executes cmd and feeds its message back into the app.
func (h *harness) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	h.app.Update(msg)
	return msg
}

func TestFrameAndCaptionFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.press(t, "n", "n")
	require.Len(t, h.sess.State().Frames, 2)
	require.Equal(t, 1, h.app.frameIdx)

	h.press(t, "up", "c")
	require.Equal(t, modalCaption, h.app.modal)
	h.press(t, "Opening shot")
	h.press(t, "enter")
	require.Equal(t, modalNone, h.app.modal)
	require.Equal(t, "Opening shot", h.sess.State().Frames[0].Caption)

	h.press(t, "c", "ignored", "esc")
	require.Equal(t, "Opening shot", h.sess.State().Frames[0].Caption)

	require.Contains(t, h.app.View(), "Opening shot")
}

func TestPasteURLsReportsMerges(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.clip.text = "https://cdn.test/p/a-100_s.jpg\nhttps://cdn.test/p/b.jpg"
	h.press(t, "p")
	require.Len(t, h.sess.State().Library, 2)
	require.Equal(t, "2 images added", h.app.status)

	h.clip.text = "https://cdn.test/p/a-800_l.jpg"
	h.press(t, "p")
	require.Len(t, h.sess.State().Library, 2)
	require.Contains(t, h.app.status, "1 images were already added, updating size variants")

	h.clip.text = "no links in here"
	h.press(t, "p")
	require.Equal(t, "No URLs found.", h.app.status)

	h.clip.readErr = errors.New("no clipboard")
	h.press(t, "p")
	require.True(t, h.app.errored)
}

func TestURLModalPastesClipboard(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.press(t, "a")
	require.Equal(t, modalURLs, h.app.modal)
	h.clip.text = "https://cdn.test/x.jpg"
	h.app.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	h.app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, modalNone, h.app.modal)
	require.Len(t, h.sess.State().Library, 1)
}

func TestKeyboardDragPlacesLibraryImage(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.press(t, "n")
	h.clip.text = "https://cdn.test/one.jpg https://cdn.test/two.jpg"
	h.press(t, "p")

	h.press(t, "tab", "down", " ")
	item, ok := h.sess.Dragging()
	require.True(t, ok)
	require.Equal(t, board.ItemLibraryImage, item.Kind)
	require.Contains(t, h.app.View(), "dragging image")

	h.press(t, "tab", "enter")
	_, ok = h.sess.Dragging()
	require.False(t, ok)
	f := h.sess.State().Frames[0]
	require.Len(t, f.Images, 1)
	require.Equal(t, "https://cdn.test/two.jpg", f.Images[0].URL)

	_, unused := h.sess.Partition()
	require.Len(t, unused, 1)

	// Drop the remaining image before the placed one.
	h.press(t, "tab", " ", "tab", "right", "enter")
	f = h.sess.State().Frames[0]
	require.Equal(t, []string{"https://cdn.test/one.jpg", "https://cdn.test/two.jpg"}, []string{f.Images[0].URL, f.Images[1].URL})
	require.NoError(t, h.sess.State().Validate())
}

func TestKeyboardDragReordersFrames(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.press(t, "n", "n", "n")
	ids := []string{h.sess.State().Frames[0].ID, h.sess.State().Frames[1].ID, h.sess.State().Frames[2].ID}

	h.press(t, " ", "up", "up", "enter")
	got := h.sess.State().Frames
	require.Equal(t, []string{ids[2], ids[0], ids[1]}, []string{got[0].ID, got[1].ID, got[2].ID})
	require.Equal(t, 0, h.app.frameIdx)

	h.press(t, " ", "esc")
	_, ok := h.sess.Dragging()
	require.False(t, ok)
	require.Equal(t, "Drag cancelled", h.app.status)
}

func TestRemoveKeys(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.press(t, "n")
	h.clip.text = "https://cdn.test/one.jpg https://cdn.test/two.jpg"
	h.press(t, "p")
	h.press(t, "tab", " ", "tab", "enter")

	h.press(t, "right", "x")
	require.Empty(t, h.sess.State().Frames[0].Images)
	require.Len(t, h.sess.State().Library, 2)

	h.press(t, "tab", "x")
	require.Equal(t, "Image removed", h.app.status)
	require.Len(t, h.sess.State().Library, 1)

	h.press(t, "tab", "x")
	require.Empty(t, h.sess.State().Frames)
}

func TestExportKey(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.press(t, "n", "e")
	require.Equal(t, "Exported 1 frames to clipboard", h.app.status)
	require.JSONEq(t, `[{"caption": "", "images": []}]`, h.clip.text)

	h.clip.writeErr = errors.New("no display")
	h.press(t, "e")
	require.True(t, h.app.errored)
	require.Contains(t, h.app.status, "exported 1 frames but")
}

func TestExportFormatKeyPersists(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	var saved []string
	h.app.deps.SaveFormat = func(format string) error {
		saved = append(saved, format)
		return nil
	}

	h.press(t, "n")
	h.run(t, h.press(t, "f"))
	require.Equal(t, "Export format: yaml", h.app.status)
	require.Equal(t, "yaml", h.app.deps.Exporter.Format)

	h.press(t, "e")
	require.Contains(t, h.clip.text, "- caption:")

	h.run(t, h.press(t, "f"))
	require.Equal(t, "json", h.app.deps.Exporter.Format)
	require.Equal(t, []string{"yaml", "json"}, saved)

	h.app.deps.SaveFormat = func(string) error { return errors.New("read-only") }
	msg := h.run(t, h.press(t, "f"))
	require.IsType(t, errMsg{}, msg)
	require.True(t, h.app.errored)
}

func TestFailuresAreLogged(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	core, logs := observer.New(zapcore.DebugLevel)
	h.app.deps.Log = zap.New(core)

	h.clip.writeErr = errors.New("no display")
	h.press(t, "n", "e")
	require.Equal(t, 1, logs.FilterMessage("board exported").Len())
	require.Equal(t, 1, logs.FilterMessage("tui action failed").Len())

	h.press(t, " ", "tab", "enter")
	require.Equal(t, 1, logs.FilterMessage("drop rejected").Len())
}

func TestStoryboardKey(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.press(t, "n")
	msg := h.run(t, h.press(t, "E"))
	require.IsType(t, statusMsg(""), msg)
	require.Contains(t, h.app.status, "board.png")
}

func TestSaveLoadResetKeys(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.run(t, h.press(t, "L"))
	require.Equal(t, "Nothing saved yet", h.app.status)

	h.press(t, "n")
	h.run(t, h.press(t, "s"))
	require.Equal(t, "Board saved", h.app.status)

	h.press(t, "n", "n")
	h.run(t, h.press(t, "L"))
	require.Equal(t, "Board loaded", h.app.status)
	require.Len(t, h.sess.State().Frames, 1)
	require.Equal(t, 0, h.app.frameIdx)

	h.press(t, "R", "n")
	require.Equal(t, "Reset cancelled", h.app.status)
	require.Len(t, h.sess.State().Frames, 1)

	h.press(t, "R")
	require.Equal(t, modalConfirmReset, h.app.modal)
	h.run(t, h.press(t, "y"))
	require.Equal(t, "Board reset", h.app.status)
	require.Empty(t, h.sess.State().Frames)
}

func TestSidebarAndUsedToggles(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.press(t, "n")
	h.clip.text = "https://cdn.test/one.jpg https://cdn.test/two.jpg"
	h.press(t, "p")
	h.press(t, "tab", " ", "tab", "enter")

	view := h.app.View()
	require.Contains(t, view, "Library (1)")
	require.Contains(t, view, "press u to show")

	h.press(t, "u")
	require.True(t, h.sess.State().UI.UsedOpen)
	items, usedFrom := h.app.libraryItems()
	require.Len(t, items, 2)
	require.Equal(t, 1, usedFrom)
	require.Contains(t, h.app.View(), "Being used (1)")

	h.press(t, "tab")
	require.Equal(t, focusLibrary, h.app.focus)
	h.press(t, "b")
	require.False(t, h.sess.State().UI.SidebarOpen)
	require.Equal(t, focusFrames, h.app.focus)
	require.False(t, strings.Contains(h.app.View(), "Library ("))
	h.press(t, "tab")
	require.Equal(t, focusFrames, h.app.focus)
}

func TestPreviewShowsSizes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.clip.text = "https://cdn.test/p/a-1200_l.jpg https://cdn.test/p/a-150_s.jpg"
	h.press(t, "p", "tab")
	preview := h.app.renderPreview()
	require.Contains(t, preview, "https://cdn.test/p/a-150_s.jpg")
	require.Less(t, strings.Index(preview, "150"), strings.Index(preview, "1200_l"))
}

func TestModalOverlaysBoard(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.press(t, "n", "R")

	view := h.app.View()
	require.Len(t, strings.Split(view, "\n"), 30)
	require.Contains(t, view, "Reset the board?")
	require.Contains(t, view, "framebuilder")
}
