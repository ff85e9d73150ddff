package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Run        key.Binding
	AddCommand key.Binding
	Quit       key.Binding
	Approve    key.Binding
	Decline    key.Binding
	NextField  key.Binding
	Submit     key.Binding
	Cancel     key.Binding
}

var keys = keyMap{
	Run: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	AddCommand: key.NewBinding(
		key.WithKeys("f2"),
		key.WithHelp("f2", "add command"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Approve: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "run"),
	),
	Decline: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "next field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}
