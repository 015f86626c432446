package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/framebuilder/internal/board"
)

func (a *App) View() string {
	st := a.session().State()

	frames := a.renderFrames(st)
	body := frames
	if st.UI.SidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, frames, " ", a.renderLibrary(st))
	}

	parts := []string{a.renderHeader(st), body, a.renderPreview()}
	if a.modal != modalNone && (a.width == 0 || a.height == 0) {
		parts = append(parts, a.renderModal())
	}
	parts = append(parts, a.renderStatus(), a.renderHelp())
	view := strings.Join(parts, "\n")
	if a.modal != modalNone && a.width > 0 && a.height > 0 {
		view = overlayCenter(view, a.renderModal(), a.width, a.height)
	}
	return view
}

func (a *App) renderHeader(st board.State) string {
	h := titleStyle.Render("framebuilder") + mutedStyle.Render(fmt.Sprintf("  %d frames · %d images", len(st.Frames), len(st.Library)))
	if item, ok := a.session().Dragging(); ok {
		h += "  " + dragStyle.Render("dragging "+item.Kind.String()+" "+shortID(item.ID))
	}
	return h
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *App) urlWidth() int {
	if a.cfg.UI.URLWidth > 0 {
		return a.cfg.UI.URLWidth
	}
	return 48
}

func (a *App) renderFrames(st board.State) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Frames"))
	b.WriteString("\n")
	if len(st.Frames) == 0 {
		b.WriteString(mutedStyle.Render("No frames yet. Press n to add one."))
	}
	for i, f := range st.Frames {
		selected := a.focus == focusFrames && i == a.frameIdx
		marker := "  "
		if selected && a.imageIdx < 0 {
			marker = cursorStyle.Render("> ")
		}
		caption := strings.ReplaceAll(strings.TrimSpace(f.Caption), "\n", " ")
		if caption == "" {
			caption = mutedStyle.Render("(no caption)")
		} else {
			caption = ansi.Truncate(caption, a.urlWidth(), "…")
		}
		fmt.Fprintf(&b, "%s%d. %s\n", marker, f.OrderID+1, caption)

		if len(f.Images) == 0 {
			b.WriteString("     " + mutedStyle.Render("drop images here") + "\n")
			continue
		}
		for j, img := range f.Images {
			line := ansi.Truncate(img.URL, a.urlWidth(), "…")
			prefix := "     "
			if selected && j == a.imageIdx {
				prefix = "   " + cursorStyle.Render("> ")
				line = cursorStyle.Render(line)
			}
			b.WriteString(prefix + line + "\n")
		}
	}
	style := paneStyle
	if a.focus == focusFrames {
		style = focusPane
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func (a *App) renderLibrary(st board.State) string {
	items, usedFrom := a.libraryItems()
	used, unused := st.Partition()

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Library (%d)", len(unused))))
	b.WriteString("\n")
	if len(st.Library) == 0 {
		b.WriteString(mutedStyle.Render("Press a or p to add image URLs."))
	}
	for i, img := range items {
		if i == usedFrom {
			b.WriteString(usedStyle.Render(fmt.Sprintf("Being used (%d)", len(used))) + "\n")
		}
		line := ansi.Truncate(img.URL, a.urlWidth(), "…")
		prefix := "  "
		if a.focus == focusLibrary && i == a.libraryIdx {
			prefix = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		} else if i >= usedFrom {
			line = usedStyle.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}
	if !st.UI.UsedOpen && len(used) > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Being used (%d), press u to show", len(used))))
	}
	style := paneStyle
	if a.focus == focusLibrary {
		style = focusPane
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

// renderPreview shows the full URL and the size variants of the selected image.
func (a *App) renderPreview() string {
	img, ok := a.selectedImage()
	if !ok {
		return ""
	}
	lines := []string{mutedStyle.Render("url ") + img.URL}
	sizes := make([]string, 0, len(img.Sizes))
	for size := range img.Sizes {
		sizes = append(sizes, size)
	}
	slices.SortFunc(sizes, compareSizes)
	for _, size := range sizes {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %6s ", size))+img.Sizes[size])
	}
	return strings.Join(lines, "\n")
}

// compareSizes orders numeric size labels by value.
func compareSizes(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalCaption:
		return modalStyle.Render(headerStyle.Render("Caption") + "\n" + a.caption.View() + "\n" + mutedStyle.Render("enter save · esc cancel"))
	case modalURLs:
		return modalStyle.Render(headerStyle.Render("Add images") + "\n" + a.urls.View() + "\n" + mutedStyle.Render("ctrl+s add · ctrl+v paste · esc cancel"))
	case modalConfirmReset:
		return modalStyle.Render(statusErr.Render("Reset the board? Frames and images are discarded.") + "\n" + mutedStyle.Render("y confirm · any other key cancels"))
	}
	return ""
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	if a.errored {
		return statusErr.Render(a.status)
	}
	return statusOK.Render(a.status)
}

func (a *App) renderHelp() string {
	var parts []string
	for _, b := range a.keys.help() {
		h := b.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	line := strings.Join(parts, "  ")
	if a.width > 0 {
		line = ansi.Truncate(line, a.width, "…")
	}
	return line
}
