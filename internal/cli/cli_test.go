package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/framebuilder/internal/config"
)

type fakeClipboard struct{ text string }

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, nil }

type env struct {
	dir  string
	clip *fakeClipboard
	n    int
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return &env{dir: t.TempDir(), clip: &fakeClipboard{}}
}

// run executes one command against the env's database and returns stdout.
func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(Options{
		Clipboard: e.clip,
		NewID: func() string {
			e.n++
			return fmt.Sprintf("id%04d", e.n)
		},
	})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--db", filepath.Join(e.dir, "board.db"),
		"--snapshot", filepath.Join(e.dir, "snapshot.json"),
		"--log", filepath.Join(e.dir, "framebuilder.log"),
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func TestFrameCommands(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	require.Equal(t, "no frames\n", e.mustRun(t, "frame", "ls"))
	require.Contains(t, e.mustRun(t, "frame", "add", "--caption", "Opening"), "frame 1 added")
	e.mustRun(t, "frame", "add")
	e.mustRun(t, "frame", "caption", "2", "Closing", "line")

	out := e.mustRun(t, "frame", "ls")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "Opening")
	require.Contains(t, lines[1], "Closing line")

	e.mustRun(t, "frame", "mv", "closing line", "opening")
	lines = strings.Split(strings.TrimSpace(e.mustRun(t, "frame", "ls")), "\n")
	require.Contains(t, lines[0], "Closing line")

	e.mustRun(t, "frame", "rm", "Openin")
	lines = strings.Split(strings.TrimSpace(e.mustRun(t, "frame", "ls")), "\n")
	require.Len(t, lines, 1)

	_, err := e.run(t, "frame", "rm", "7")
	require.Error(t, err)
}

func TestIngestPlaceExport(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	out := e.mustRun(t, "ingest", "https://cdn.test/p/a-100_s.jpg,https://cdn.test/p/b.jpg")
	require.Equal(t, "2 images added\n", out)
	out = e.mustRun(t, "ingest", "https://cdn.test/p/a-800_l.jpg")
	require.Contains(t, out, "1 images were already added, updating size variants")
	require.Equal(t, "No URLs found.\n", e.mustRun(t, "ingest", "nothing"))

	e.mustRun(t, "frame", "add", "-c", "Hero")
	e.mustRun(t, "place", "https://cdn.test/p/b.jpg", "1")
	e.mustRun(t, "place", "https://cdn.test/p/a-800_l.jpg", "Hero", "--before", "https://cdn.test/p/b.jpg")

	require.Contains(t, e.mustRun(t, "image", "ls", "--used"), "https://cdn.test/p/a-100_s.jpg (2 sizes)")
	require.Empty(t, e.mustRun(t, "image", "ls", "--unused"))

	out = e.mustRun(t, "export", "--copy", "--indent", "0")
	var doc []struct {
		Caption string `json:"caption"`
		Images  []struct {
			URL   string            `json:"url"`
			Sizes map[string]string `json:"sizes"`
		} `json:"images"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc, 1)
	require.Equal(t, "Hero", doc[0].Caption)
	require.Len(t, doc[0].Images, 2)
	require.Equal(t, "https://cdn.test/p/a-100_s.jpg", doc[0].Images[0].URL)
	require.Len(t, doc[0].Images[0].Sizes, 2)
	require.Equal(t, "https://cdn.test/p/b.jpg", doc[0].Images[1].URL)
	require.Equal(t, strings.TrimSpace(out), e.clip.text)

	yamlOut := e.mustRun(t, "export", "--format", "yaml", "--no-copy")
	require.Contains(t, yamlOut, "caption: Hero")

	png := filepath.Join(e.dir, "story.png")
	e.mustRun(t, "export", "--no-copy", "--png", png, "-o", filepath.Join(e.dir, "doc.json"))
	_, err := os.Stat(png)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(e.dir, "doc.json"))
	require.NoError(t, err)

	require.Equal(t, "Image removed\n", e.mustRun(t, "image", "rm", "https://cdn.test/p/b.jpg"))
	require.NotContains(t, e.mustRun(t, "frame", "ls"), "b.jpg")
}

func TestPlaceRejectsUnknownRefs(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.mustRun(t, "frame", "add")
	e.mustRun(t, "ingest", "https://cdn.test/x.jpg", "https://cdn.test/y.jpg")

	_, err := e.run(t, "place", "https://cdn.test/none.jpg", "1")
	require.Error(t, err)
	_, err = e.run(t, "place", "1", "9")
	require.Error(t, err)
	_, err = e.run(t, "place", "1", "1", "--before", "2")
	require.ErrorContains(t, err, "is not in frame 1")
}

func TestSnapshotSeedReset(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, err := e.run(t, "snapshot", "load")
	require.ErrorContains(t, err, "no snapshot")

	require.Contains(t, e.mustRun(t, "seed", "--seed", "3"), "seeded")
	before := e.mustRun(t, "frame", "ls")
	require.Contains(t, e.mustRun(t, "snapshot", "save"), "snapshot saved")

	_, err = e.run(t, "reset")
	require.Error(t, err)
	require.Equal(t, "board reset\n", e.mustRun(t, "reset", "--yes"))
	require.Equal(t, "no frames\n", e.mustRun(t, "frame", "ls"))

	require.Contains(t, e.mustRun(t, "snapshot", "load"), "loaded")
	require.Equal(t, before, e.mustRun(t, "frame", "ls"))

	corrupt := filepath.Join(e.dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte(`{"version":1,"state":{"frames":[{"id":"a","orderId":2}]}}`), 0o600))
	_, err = e.run(t, "snapshot", "load", corrupt)
	require.Error(t, err)
	require.Equal(t, before, e.mustRun(t, "frame", "ls"))
}

func TestSaveExportFormatKeepsFileSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	t.Setenv("HOME", dir)
	t.Setenv("FRAMEBUILDER_CONFIG", path)
	require.NoError(t, os.WriteFile(path, []byte("[export]\nindent = 4\n"), 0o644))

	require.NoError(t, saveExportFormat("yaml"))

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "yaml", cfg.Export.Format)
	require.Equal(t, 4, cfg.Export.Indent)
}
