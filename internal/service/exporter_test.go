package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jask/framebuilder/internal/board"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func exportBoard(t *testing.T) board.State {
	t.Helper()
	s, _, err := board.Empty().Ingest("https://cdn.test/p/a-1_s.jpg https://cdn.test/p/a-9_l.jpg", seqIDs("img"))
	require.NoError(t, err)
	s, f := s.AddFrame("f0")
	s = s.SetCaption(f.ID, "intro")
	s, _ = s.AddFrame("f1")
	s, ok := s.Move(board.DragItem{Kind: board.ItemLibraryImage, ID: "img-1"}, board.DropTarget{Kind: board.DropFrame, ID: f.ID})
	require.True(t, ok)
	return s
}

func TestExporterJSON(t *testing.T) {
	t.Parallel()
	cb := &fakeClipboard{}
	e := &Exporter{Format: "json", Indent: 0, Clipboard: cb}

	res, err := e.Export(exportBoard(t), true)
	require.NoError(t, err)
	require.True(t, res.Copied)
	require.NoError(t, res.CopyErr)
	require.Equal(t, res.Text, cb.text)
	require.JSONEq(t, `[
		{"caption": "intro", "images": [{"url": "https://cdn.test/p/a-1_s.jpg", "sizes": {"1": "https://cdn.test/p/a-1_s.jpg", "9": "https://cdn.test/p/a-9_l.jpg"}}]},
		{"caption": "", "images": []}
	]`, res.Text)
}

func TestExporterIndent(t *testing.T) {
	t.Parallel()
	e := &Exporter{Format: "json", Indent: 4}
	text, err := e.Render(board.Document{{Caption: "x", Images: []board.ExportImage{}}})
	require.NoError(t, err)
	require.Contains(t, text, "\n    {")
}

func TestExporterYAML(t *testing.T) {
	t.Parallel()
	e := &Exporter{Format: "YAML", Indent: 2}
	res, err := e.Export(exportBoard(t), false)
	require.NoError(t, err)
	require.False(t, res.Copied)

	var back []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(res.Text), &back))
	require.Len(t, back, 2)
	require.Equal(t, "intro", back[0]["caption"])
}

func TestExporterClipboardFailureKeepsText(t *testing.T) {
	t.Parallel()
	boom := errors.New("no display")
	e := &Exporter{Format: "json", Clipboard: &fakeClipboard{err: boom}}

	s := exportBoard(t)
	res, err := e.Export(s, true)
	require.NoError(t, err)
	require.ErrorIs(t, res.CopyErr, boom)
	require.False(t, res.Copied)
	require.NotEmpty(t, res.Text)
	require.Equal(t, exportBoard(t), s)
}

func TestExporterUnknownFormat(t *testing.T) {
	t.Parallel()
	_, err := (&Exporter{Format: "xml"}).Render(nil)
	require.Error(t, err)
}
