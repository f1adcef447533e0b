package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg time.Time

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
