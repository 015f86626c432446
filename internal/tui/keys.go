package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Focus         key.Binding
	NewFrame      key.Binding
	Caption       key.Binding
	AddURLs       key.Binding
	PasteURLs     key.Binding
	Remove        key.Binding
	Pick          key.Binding
	Drop          key.Binding
	Cancel        key.Binding
	Export        key.Binding
	ExportFormat  key.Binding
	Storyboard    key.Binding
	Save          key.Binding
	Load          key.Binding
	Reset         key.Binding
	ToggleSidebar key.Binding
	ToggleUsed    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev image")),
		Right:         key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next image")),
		Focus:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "frames/library")),
		NewFrame:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new frame")),
		Caption:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "caption")),
		AddURLs:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add urls")),
		PasteURLs:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste urls")),
		Remove:        key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Pick:          key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		Drop:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Export:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		ExportFormat:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "json/yaml")),
		Storyboard:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "storyboard png")),
		Save:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Load:          key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "load")),
		Reset:         key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		ToggleSidebar: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "sidebar")),
		ToggleUsed:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "used images")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{
		k.NewFrame, k.Caption, k.AddURLs, k.PasteURLs, k.Pick, k.Drop, k.Remove,
		k.Export, k.ExportFormat, k.Save, k.Load, k.ToggleSidebar, k.ToggleUsed, k.Quit,
	}
}
