package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusKind indicates severity for status line messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Short status messages shown below the result list.
const (
	MsgSearching  = "Searching…"
	MsgNoResults  = "No results"
	MsgSaveFailed = "Could not save recent items"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// defaultStatusTTL is how long a status message stays before it is cleared.
const defaultStatusTTL = 4 * time.Second

type statusClearMsg struct {
	seq int
}

// setStatus shows text on the status line and schedules its removal unless
// a newer status replaces it first.
func (a *App) setStatus(text string, kind StatusKind) tea.Cmd {
	a.status = text
	a.statusKind = kind
	a.statusSeq++
	if a.statusTTL <= 0 {
		return nil
	}
	seq := a.statusSeq
	return tea.Tick(a.statusTTL, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func (a *App) clearStatus(seq int) {
	if seq == a.statusSeq {
		a.status = ""
	}
}

func (a *App) statusStyle() lipgloss.Style {
	switch a.statusKind {
	case StatusSuccess:
		return a.theme.StatusSuccess
	case StatusWarn:
		return a.theme.StatusWarn
	case StatusError:
		return a.theme.StatusError
	}
	return a.theme.StatusInfo
}
