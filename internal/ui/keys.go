package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Scheme keys are the shifted digits; the index of a rune is its scheme.
const schemeKeys = ")!@#$%^&*("

// speeds maps digits to frame intervals in seconds.
var speeds = [10]float64{0.2, 0.005, 0.01, 0.02, 0.03, 0.05, 0.07, 0.1, 0.15, 0.2}

type keyMap struct {
	Fewer  key.Binding
	More   key.Binding
	Pause  key.Binding
	Speed  key.Binding
	Scheme key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fewer, k.More, k.Pause, k.Speed, k.Scheme, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Fewer: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "fewer bars"),
	),
	More: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "more bars"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause"),
	),
	Speed: key.NewBinding(
		key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("0-9", "speed"),
	),
	Scheme: key.NewBinding(
		key.WithKeys(strings.Split(schemeKeys, "")...),
		key.WithHelp("shift+0-9", "colour scheme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func isQuit(msg tea.KeyMsg) bool {
	return key.Matches(msg, keys.Quit)
}
