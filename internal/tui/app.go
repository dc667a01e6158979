package tui

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/engine"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/recency"
)

// Launcher runs confirmed rows in external applications.
type Launcher interface {
	Open(target, with string) error
	Run(commandLine string) error
}

// RecencyStore persists the recently used rows.
type RecencyStore interface {
	SaveRecency(records []recency.Record) error
}

const detailHeight = 8

// App hosts the engine in a terminal window. The engine owns all launcher
// state; App converts keys, schedules the engine's jobs and carries out
// outcomes.
type App struct {
	config     *config.Config
	engine     *engine.Engine
	launcher   Launcher
	store      RecencyStore
	keyHandler *KeyHandler
	theme      Theme
	startMode  mode.Mode
	copy       func(string) error

	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model

	width  int
	height int

	// waiting is the token of the latest scheduled search.
	waiting *dispatch.Token

	status     string
	statusKind StatusKind
	statusSeq  int
	statusTTL  time.Duration

	detailID        string
	detailWant      string
	rendererMu      sync.Mutex
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	quitting        bool
}

func NewApp(eng *engine.Engine, cfg *config.Config, launcher Launcher, store RecencyStore) *App {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	app := &App{
		config:    cfg,
		engine:    eng,
		launcher:  launcher,
		store:     store,
		theme:     NewTheme(cfg.UI.Colors),
		startMode: mode.Normal{},
		copy:      clipboard.WriteAll,
		input:     ti,
		viewport:  viewport.New(0, detailHeight),
		help:      help.New(),
		spinner:   sp,
		statusTTL: defaultStatusTTL,
	}
	app.spinner.Style = lipgloss.NewStyle().Foreground(app.theme.Accent)
	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

// StartIn makes the launcher open directly in m.
func (a *App) StartIn(m mode.Mode) {
	if m != nil {
		a.startMode = m
	}
}

func (a *App) getRenderer(width int) (*glamour.TermRenderer, error) {
	wordWrapWidth := width - 8
	if wordWrapWidth > 100 {
		wordWrapWidth = 100
	}
	if wordWrapWidth < 20 {
		wordWrapWidth = 20
	}

	a.rendererMu.Lock()
	defer a.rendererMu.Unlock()
	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	eff := a.engine.Start()
	cmds := []tea.Cmd{tea.EnterAltScreen, textinput.Blink, a.apply(eff)}
	if a.startMode.Kind() != mode.KindNormal {
		cmds = append(cmds, a.apply(a.engine.EnterMode(a.startMode)))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(msg.Width-30, 10)
		a.viewport.Width = max(msg.Width-8, 10)
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		model, cmd := a.keyHandler.HandleKey(msg)
		return model, tea.Batch(cmd, a.followOverlay())

	case debounceFiredMsg:
		return a, a.runJob(msg.job)

	case searchDoneMsg:
		if a.waiting != nil && *a.waiting == msg.completion.Token {
			a.waiting = nil
		}
		a.engine.Complete(msg.completion)

	case slotDoneMsg:
		a.engine.CompleteSlot(msg.completion)

	case outcomeDoneMsg:
		if msg.err != nil {
			debuglog.WithFields(debuglog.Fields{"outcome": msg.outcome.Kind.String()}).Warnf("%v", msg.err)
			return a, a.setStatus(errText(msg.err), StatusError)
		}
		return a, a.quit()

	case recencySavedMsg:
		if msg.err != nil {
			debuglog.Warnf("saving recent items: %v", msg.err)
			return a, a.setStatus(MsgSaveFailed, StatusWarn)
		}

	case detailRenderedMsg:
		if o := a.engine.Overlay(); o != nil && o.Target.ID == msg.id {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.detailID = msg.id
		}

	case statusClearMsg:
		a.clearStatus(msg.seq)

	case spinner.TickMsg:
		if !a.searching() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

// apply carries out an engine effect. Persisting recency, running the
// outcome and quitting happen in that order.
func (a *App) apply(eff engine.Effect) tea.Cmd {
	wasSearching := a.searching()
	var cmds []tea.Cmd
	for _, job := range eff.Jobs {
		cmds = append(cmds, a.debounce(job))
	}
	if !wasSearching && a.searching() {
		cmds = append(cmds, a.spinner.Tick)
	}
	for _, job := range eff.SlotJobs {
		cmds = append(cmds, runSlot(job))
	}
	if eff.Err != nil {
		cmds = append(cmds, a.setStatus(errText(eff.Err), StatusError))
	}

	var ordered []tea.Cmd
	if eff.RecencyChanged {
		ordered = append(ordered, a.saveRecency())
	}
	if eff.Outcome.Kind != provider.NoOp {
		ordered = append(ordered, a.execute(eff.Outcome))
	}
	if eff.Dismiss {
		ordered = append(ordered, a.quit())
	}
	if len(ordered) > 0 {
		cmds = append(cmds, tea.Sequence(ordered...))
	}

	a.syncInput()
	return tea.Batch(cmds...)
}

// searching reports whether the latest scheduled search is still wanted.
func (a *App) searching() bool {
	return a.waiting != nil && a.engine.Ready(*a.waiting)
}

// syncInput mirrors the engine's query into the text input.
func (a *App) syncInput() {
	if a.input.Value() != a.engine.Query() {
		a.input.SetValue(a.engine.Query())
		a.input.CursorEnd()
	}
	a.input.Placeholder = a.engine.Placeholder()
}

// followOverlay asks for the detail view of a newly opened overlay.
func (a *App) followOverlay() tea.Cmd {
	o := a.engine.Overlay()
	if o == nil {
		a.detailWant = ""
		return nil
	}
	if o.Target.ID == a.detailID || o.Target.ID == a.detailWant {
		return nil
	}
	a.detailWant = o.Target.ID
	return a.renderDetail(o.Target)
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	return tea.Quit
}

func (a *App) inMode() bool {
	return a.engine.Mode().Kind() != mode.KindNormal
}

func (a *App) modeLabel() string {
	return mode.Label(a.engine.Mode())
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	width := max(a.width, 20)
	bodyHeight := max(a.height-5, 3)

	var body string
	if o := a.engine.Overlay(); o != nil {
		body = a.renderOverlay(o, width)
	} else if g, ok := a.engine.Grid(); ok {
		body = a.renderGrid(a.engine.List(), g, width, bodyHeight)
	} else {
		body = a.renderRows(a.engine.List(), width, bodyHeight)
	}
	body = lipgloss.NewStyle().
		Width(width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderQueryBar(),
		a.renderSeparator(),
		body,
		a.renderSeparator(),
		a.renderFooter(),
	)
}
