package mode

import (
	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
)

// Hooks are the per-kind transition callbacks. Setup runs after a mode
// becomes current with a settings snapshot read at that moment. Teardown
// runs before a mode stops being current and must drop everything the mode
// owned. Refresh runs when the current mode is entered again.
type Hooks struct {
	Setup    func(m Mode, s config.Settings)
	Teardown func(m Mode)
	Refresh  func(m Mode, s config.Settings)
}

// ChangeFunc observes completed transitions.
type ChangeFunc func(from, to Mode)

// Controller holds the single active mode. It is driven from one goroutine
// and never runs two modes' hooks interleaved: the previous mode's teardown
// always completes before the next mode's setup starts.
type Controller struct {
	current   Mode
	hooks     map[Kind]Hooks
	fallback  Hooks
	source    config.Source
	settings  config.Settings
	listeners []ChangeFunc
}

// NewController returns a controller in Normal mode. Hooks are not run
// until Start.
func NewController(source config.Source) *Controller {
	return &Controller{
		current: Normal{},
		hooks:   make(map[Kind]Hooks),
		source:  source,
	}
}

// Handle installs the hooks for kind, replacing earlier ones.
func (c *Controller) Handle(kind Kind, h Hooks) {
	c.hooks[kind] = h
}

// HandleDefault installs hooks for kinds without their own entry.
func (c *Controller) HandleDefault(h Hooks) {
	c.fallback = h
}

// OnChange registers a transition observer.
func (c *Controller) OnChange(fn ChangeFunc) {
	c.listeners = append(c.listeners, fn)
}

// Start runs Normal's setup.
func (c *Controller) Start() {
	c.settings = c.source.Settings()
	c.setup(c.current)
}

// Current returns the active mode.
func (c *Controller) Current() Mode { return c.current }

// Settings returns the snapshot taken on the last entry or refresh.
func (c *Controller) Settings() config.Settings { return c.settings }

// InMode reports whether a non-Normal mode is active.
func (c *Controller) InMode() bool {
	return c.current.Kind() != KindNormal
}

// Enter makes m the active mode. Entering the mode that is already active
// (same Key) refreshes it instead of running setup twice; m still replaces
// the current value since its payload may differ. Entering Normal is the
// same as exiting the current mode.
func (c *Controller) Enter(m Mode) {
	if m == nil {
		return
	}
	if m.Key() == c.current.Key() {
		c.current = m
		c.settings = c.source.Settings()
		if h := c.lookup(m.Kind()); h.Refresh != nil {
			h.Refresh(m, c.settings)
		}
		debuglog.Debugf("mode refresh %s", m.Key())
		return
	}
	if m.Kind() == KindNormal {
		c.Exit(c.current.Kind())
		return
	}

	prev := c.current
	c.teardown(prev)
	c.current = m
	c.settings = c.source.Settings()
	c.setup(m)
	debuglog.Debugf("mode %s -> %s", prev.Key(), m.Key())
	c.notify(prev, m)
}

// Exit leaves the active mode if it is of the given kind, restoring Normal
// and re-running Normal's setup. It reports whether a transition happened;
// exiting Normal, or a kind that is not active, does nothing.
func (c *Controller) Exit(kind Kind) bool {
	if kind == KindNormal || c.current.Kind() != kind {
		return false
	}
	prev := c.current
	c.teardown(prev)
	c.current = Normal{}
	c.settings = c.source.Settings()
	c.setup(c.current)
	debuglog.Debugf("mode %s exited", prev.Key())
	c.notify(prev, c.current)
	return true
}

// ExitCurrent exits whatever mode is active.
func (c *Controller) ExitCurrent() bool {
	return c.Exit(c.current.Kind())
}

func (c *Controller) lookup(kind Kind) Hooks {
	if h, ok := c.hooks[kind]; ok {
		return h
	}
	return c.fallback
}

func (c *Controller) setup(m Mode) {
	if h := c.lookup(m.Kind()); h.Setup != nil {
		h.Setup(m, c.settings)
	}
}

func (c *Controller) teardown(m Mode) {
	if h := c.lookup(m.Kind()); h.Teardown != nil {
		h.Teardown(m)
	}
}

func (c *Controller) notify(from, to Mode) {
	for _, fn := range c.listeners {
		fn(from, to)
	}
}
