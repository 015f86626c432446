package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jask/framebuilder/internal/board"
)

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }

// SystemClipboard returns the OS clipboard.
func SystemClipboard() Clipboard { return systemClipboard{} }

// Exporter renders the export document and optionally copies it.
type Exporter struct {
	Format    string // json or yaml
	Indent    int
	Clipboard Clipboard
	Log       *zap.Logger
}

// ExportResult carries the rendered text. CopyErr is set when the clipboard
// write failed; Text is valid regardless.
type ExportResult struct {
	Document board.Document
	Text     string
	Copied   bool
	CopyErr  error
}

// Render encodes doc in the configured format.
func (e *Exporter) Render(doc board.Document) (string, error) {
	indent := strings.Repeat(" ", e.Indent)
	switch strings.ToLower(e.Format) {
	case "", "json":
		var (
			out []byte
			err error
		)
		if e.Indent > 0 {
			out, err = json.MarshalIndent(doc, "", indent)
		} else {
			out, err = json.Marshal(doc)
		}
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(out), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		if e.Indent > 0 {
			enc.SetIndent(e.Indent)
		}
		if err := enc.Encode(doc); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("export: unknown format %q", e.Format)
	}
}

// Export projects s, renders it and, when toClipboard is set, writes the text to
// the clipboard.
func (e *Exporter) Export(s board.State, toClipboard bool) (ExportResult, error) {
	res := ExportResult{Document: board.Export(s)}
	text, err := e.Render(res.Document)
	if err != nil {
		return res, err
	}
	res.Text = text
	if toClipboard {
		res.CopyErr = e.Copy(text)
		res.Copied = res.CopyErr == nil
	}
	return res, nil
}

// Copy writes text to the clipboard.
func (e *Exporter) Copy(text string) error {
	cb := e.Clipboard
	if cb == nil {
		cb = SystemClipboard()
	}
	if err := cb.WriteAll(text); err != nil {
		if e.Log != nil {
			e.Log.Warn("clipboard write failed", zap.Error(err))
		}
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
