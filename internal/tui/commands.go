package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/result"
)

type debounceFiredMsg struct {
	job dispatch.Job
}

type searchDoneMsg struct {
	completion dispatch.Completion
}

type slotDoneMsg struct {
	completion dispatch.SlotCompletion
}

type outcomeDoneMsg struct {
	outcome provider.Outcome
	err     error
}

type recencySavedMsg struct {
	err error
}

type detailRenderedMsg struct {
	id      string
	content string
}

// debounce waits out the job's delay before asking whether it may run.
func (a *App) debounce(job dispatch.Job) tea.Cmd {
	a.waiting = &job.Token
	if job.Delay <= 0 {
		return func() tea.Msg { return debounceFiredMsg{job: job} }
	}
	return tea.Tick(job.Delay, func(time.Time) tea.Msg { return debounceFiredMsg{job: job} })
}

// runJob starts a debounced job unless something newer was dispatched in
// the meantime.
func (a *App) runJob(job dispatch.Job) tea.Cmd {
	if !a.engine.Ready(job.Token) {
		debuglog.Debugf("debounce: superseded search %q", job.Token.Query)
		return nil
	}
	return func() tea.Msg {
		return searchDoneMsg{completion: job.Run()}
	}
}

func runSlot(job dispatch.SlotJob) tea.Cmd {
	return func() tea.Msg {
		return slotDoneMsg{completion: job.Run()}
	}
}

// execute performs an outcome outside the update loop.
func (a *App) execute(o provider.Outcome) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch o.Kind {
		case provider.OpenExternal:
			err = wrapErr("open "+o.Target, a.launcher.Open(o.Target, o.With))
		case provider.Execute:
			err = wrapErr("run "+o.Target, a.launcher.Run(o.Target))
		case provider.CopyToClipboard:
			err = wrapErr("copy", a.copy(o.Text))
		default:
			err = fmt.Errorf("unsupported outcome %s", o.Kind)
		}
		return outcomeDoneMsg{outcome: o, err: err}
	}
}

// saveRecency persists a snapshot of the tracker. The snapshot is taken on
// the update goroutine since the tracker is not safe for concurrent use.
func (a *App) saveRecency() tea.Cmd {
	if a.store == nil {
		return nil
	}
	records := a.engine.Tracker().Records()
	return func() tea.Msg {
		return recencySavedMsg{err: retryOperation(func() error { return a.store.SaveRecency(records) })}
	}
}

// renderDetail renders the markdown description of the overlay's row.
func (a *App) renderDetail(item result.Item) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		r, err := a.getRenderer(width)
		if err != nil {
			return detailRenderedMsg{id: item.ID, content: "Error initializing renderer: " + err.Error()}
		}
		rendered, err := r.Render(detailMarkdown(item))
		if err != nil {
			return detailRenderedMsg{id: item.ID, content: item.Title}
		}
		return detailRenderedMsg{id: item.ID, content: strings.TrimSpace(rendered)}
	}
}

func detailMarkdown(item result.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", item.Title)
	if item.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n\n", item.Subtitle)
	}
	if item.Target != "" && item.Kind != result.KindTwoFactorCode {
		fmt.Fprintf(&b, "`%s`\n\n", item.Target)
	}
	if s := item.Stats; s != nil {
		fmt.Fprintf(&b, "- CPU: %.1f%%\n- Memory: %.0f MB\n", s.CPU, s.MemoryMB)
		if s.Port > 0 {
			fmt.Fprintf(&b, "- Port: %d\n", s.Port)
		}
	}
	fmt.Fprintf(&b, "\n*%s*", item.Kind)
	return b.String()
}

// retryOperation retries a database operation up to 3 times with exponential backoff
func retryOperation(operation func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err
		if i < maxRetries-1 {
			time.Sleep(baseDelay * time.Duration(1<<i))
		}
	}
	return lastErr
}

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// errText is the status line form of err, without wrapping noise for
// timeouts.
func errText(err error) string {
	if errors.Is(err, dispatch.ErrTimeout) {
		return "Timed out"
	}
	return err.Error()
}
