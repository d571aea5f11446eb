package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Shorter      key.Binding
	Longer       key.Binding
	Digits       key.Binding
	Special      key.Binding
	Generate     key.Binding
	Reset        key.Binding
	Copy         key.Binding
	Export       key.Binding
	ClearHistory key.Binding
	Focus        key.Binding
	Blur         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
}

var keys = keyMap{
	Shorter:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "shorter")),
	Longer:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "longer")),
	Digits:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "digits")),
	Special:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "special")),
	Generate:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
	Reset:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
	Copy:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
	Export:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	ClearHistory: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "clear history")),
	Focus:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "type")),
	Blur:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c")),
}

func (k keyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Shorter, k.Longer, k.Digits, k.Special, k.Generate, k.Reset,
		k.Copy, k.Export, k.ClearHistory, k.Focus, k.Quit}
}

func (k keyMap) typingHelp() []key.Binding {
	return []key.Binding{k.Blur}
}
