// Package engine is the launcher's query and mode engine. It owns the
// active mode, the query text, the result list and the quick-actions
// overlay, and turns key events into state changes plus Effects the host
// carries out. An Engine is driven from a single goroutine.
package engine

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/pders01/qlaunch/internal/alias"
	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/keys"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/nav"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/rank"
	"github.com/pders01/qlaunch/internal/recency"
	"github.com/pders01/qlaunch/internal/result"
)

// Effect is what the host has to do after an engine call.
type Effect struct {
	// Jobs are debounced searches: wait Delay, check Ready, then Run off
	// the engine goroutine and hand the completion to Complete.
	Jobs []dispatch.Job
	// SlotJobs resolve independently; hand each completion to CompleteSlot.
	SlotJobs []dispatch.SlotJob
	// Outcome is executed by the host unless its Kind is NoOp.
	Outcome provider.Outcome
	// Dismiss asks the host to hide or quit the launcher.
	Dismiss bool
	// RecencyChanged means the tracker's records should be persisted.
	RecencyChanged bool
	// Err is a failed quick action, for the host's status line.
	Err error
}

// Empty reports whether the effect asks nothing of the host.
func (e Effect) Empty() bool {
	return len(e.Jobs) == 0 && len(e.SlotJobs) == 0 && e.Outcome.Kind == provider.NoOp &&
		!e.Dismiss && !e.RecencyChanged && e.Err == nil
}

func (e *Effect) merge(o Effect) {
	e.Jobs = append(e.Jobs, o.Jobs...)
	e.SlotJobs = append(e.SlotJobs, o.SlotJobs...)
	if o.Outcome.Kind != provider.NoOp {
		e.Outcome = o.Outcome
	}
	e.Dismiss = e.Dismiss || o.Dismiss
	e.RecencyChanged = e.RecencyChanged || o.RecencyChanged
	if o.Err != nil {
		e.Err = o.Err
	}
}

const (
	unavailableID = "engine:unavailable"
	failureID     = "engine:error"
	recentHeader  = "Recent"
)

type Engine struct {
	controller *mode.Controller
	dispatcher *dispatch.Dispatcher
	registry   *provider.Registry
	tracker    *recency.Tracker
	router     keys.Router

	query   string
	list    result.List
	overlay *Overlay

	// Routes of the active mode, built from the settings snapshot taken
	// on entry.
	route    dispatch.Route
	fallback dispatch.Route

	// pending collects the effects of hooks run during a transition.
	pending Effect
}

// New builds an engine in Normal mode. Call Start before anything else.
func New(source config.Source, registry *provider.Registry, tracker *recency.Tracker, router keys.Router) *Engine {
	if tracker == nil {
		tracker = recency.NewTracker(0, nil)
	}
	e := &Engine{
		controller: mode.NewController(source),
		dispatcher: dispatch.New(),
		registry:   registry,
		tracker:    tracker,
		router:     router,
		list:       result.NewList(),
	}
	e.controller.HandleDefault(mode.Hooks{
		Setup:    e.setup,
		Teardown: e.teardown,
		Refresh:  e.refresh,
	})
	return e
}

// Start runs Normal's setup, showing the recents list.
func (e *Engine) Start() Effect {
	e.controller.Start()
	return e.takePending()
}

func (e *Engine) Mode() mode.Mode            { return e.controller.Current() }
func (e *Engine) Settings() config.Settings { return e.controller.Settings() }
func (e *Engine) Query() string             { return e.query }
func (e *Engine) List() result.List         { return e.list }
func (e *Engine) Tracker() *recency.Tracker { return e.tracker }

// Overlay returns the open quick-actions overlay, or nil.
func (e *Engine) Overlay() *Overlay { return e.overlay }

// Placeholder is the query field hint of the active mode.
func (e *Engine) Placeholder() string { return mode.Placeholder(e.Mode()) }

// Grid returns the grid shape of the list, ok is false for linear modes.
func (e *Engine) Grid() (nav.Grid, bool) {
	if !mode.IsGrid(e.Mode()) {
		return nav.Grid{}, false
	}
	return nav.Grid{Columns: e.Settings().GridColumns, Count: e.list.Len()}, true
}

// Ready reports whether a debounced job may still start.
func (e *Engine) Ready(tok dispatch.Token) bool {
	return e.dispatcher.Ready(tok)
}

// EnterMode switches to m, e.g. on a direct mode request from the command
// line. Entering the active mode refreshes it.
func (e *Engine) EnterMode(m mode.Mode) Effect {
	e.overlay = nil
	e.controller.Enter(m)
	return e.takePending()
}

// ExitMode leaves the active mode, if any.
func (e *Engine) ExitMode() Effect {
	e.overlay = nil
	e.controller.ExitCurrent()
	return e.takePending()
}

// SetQuery replaces the query text and dispatches it to the active mode.
func (e *Engine) SetQuery(text string) Effect {
	e.query = text
	e.overlay = nil

	m := e.Mode()
	route := e.route
	normalEmpty := m.Kind() == mode.KindNormal && strings.TrimSpace(text) == ""
	if normalEmpty {
		// Still dispatched, so anything in flight is superseded.
		route = dispatch.Route{}
	}

	res := e.dispatcher.Dispatch(m.Key(), text, route)
	switch {
	case res.Job != nil:
		return Effect{Jobs: []dispatch.Job{*res.Job}}
	case normalEmpty:
		e.present(nil, nil)
	case route.Search == nil:
		// Modes without a search function keep their rows.
	default:
		e.present(res.Items, res.Err)
	}
	return Effect{}
}

// Complete applies an async search result. Stale completions are dropped
// and reported as false.
func (e *Engine) Complete(c dispatch.Completion) bool {
	if !e.dispatcher.Accept(c, e.Mode().Key(), e.query) {
		debuglog.WithFields(debuglog.Fields{"mode": c.Token.Mode, "query": c.Token.Query}).Debugf("dropping stale completion")
		return false
	}
	e.present(c.Items, c.Err)
	return true
}

// CompleteSlot replaces a slot's placeholder row in place.
func (e *Engine) CompleteSlot(c dispatch.SlotCompletion) bool {
	if !e.dispatcher.AcceptSlot(c, e.Mode().Key()) {
		debuglog.WithFields(debuglog.Fields{"mode": c.Token.Mode, "slot": c.Token.Slot}).Debugf("dropping stale slot")
		return false
	}
	return e.list.ReplaceByID(c.Item)
}

// HandleKey routes ev and applies it.
func (e *Engine) HandleKey(ev keys.Event) Effect {
	st := keys.State{
		QueryEmpty:    e.query == "",
		InMode:        e.controller.InMode(),
		OverlayActive: e.overlay != nil,
		Grid:          mode.IsGrid(e.Mode()),
	}
	act := e.router.Route(ev, st)

	if e.overlay != nil {
		if act.Kind == keys.PassThrough && typing(ev) {
			// Keys the overlay does not use go to the query field.
			if ev.Key == keys.KeyDelete && e.query == "" {
				e.overlay = nil
				return Effect{}
			}
			return e.SetQuery(edit(e.query, ev))
		}
		return e.handleOverlay(act)
	}

	switch act.Kind {
	case keys.TextEdited:
		return e.SetQuery(edit(e.query, ev))
	case keys.MoveSelection:
		e.move(act.Dir)
	case keys.Confirm:
		return e.Confirm()
	case keys.Cancel:
		if e.controller.InMode() {
			return e.ExitMode()
		}
		return Effect{Dismiss: true}
	case keys.ExitMode:
		return e.ExitMode()
	case keys.PromoteToMode:
		return e.Promote()
	case keys.ToggleOverlay:
		e.openOverlay()
	}
	return Effect{}
}

// typing reports whether ev would edit the query text.
func typing(ev keys.Event) bool {
	switch ev.Key {
	case keys.KeyDelete:
		return true
	case keys.KeyRune, keys.KeySpace:
		return ev.Mods&(keys.ModCtrl|keys.ModCmd|keys.ModAlt) == 0
	}
	return false
}

// edit applies a text-editing key to query.
func edit(query string, ev keys.Event) string {
	switch ev.Key {
	case keys.KeyDelete:
		if query == "" {
			return query
		}
		_, size := utf8.DecodeLastRuneInString(query)
		return query[:len(query)-size]
	case keys.KeySpace:
		return query + " "
	case keys.KeyRune:
		return query + string(ev.Runes)
	}
	return query
}

func (e *Engine) move(dir nav.Direction) {
	from := e.list.SelectedIndex()
	if g, ok := e.Grid(); ok {
		if from == result.NoSelection {
			e.list.Select(nav.First(e.list))
			return
		}
		if next, ok := g.Move(from, dir); ok {
			e.list.Select(next)
		}
		return
	}
	e.list.Select(nav.Linear(e.list, from, dir))
}

// Promote enters the sub-mode of the selected row. Rows that cannot be
// promoted, and promotion inside a mode, are ignored.
func (e *Engine) Promote() Effect {
	if e.controller.InMode() {
		return Effect{}
	}
	item, ok := e.list.Selected()
	if !ok {
		return Effect{}
	}
	m, ok := e.registry.ModeFor(item, e.Settings())
	if !ok {
		return Effect{}
	}
	return e.EnterMode(m)
}

// Confirm acts on the selected row.
func (e *Engine) Confirm() Effect {
	item, ok := e.list.Selected()
	if !ok {
		return Effect{}
	}
	return e.apply(item, e.outcome(item))
}

func (e *Engine) outcome(item result.Item) provider.Outcome {
	if p, ok := e.registry.Provider(e.Mode().Kind()); ok {
		if c, ok := p.(provider.Confirmer); ok {
			return c.Confirm(e.Mode(), item)
		}
	}
	return provider.DefaultOutcome(item)
}

// apply carries out an outcome on behalf of item. Promotions are handled
// here; everything else goes to the host.
func (e *Engine) apply(item result.Item, o provider.Outcome) Effect {
	switch o.Kind {
	case provider.NoOp:
		return Effect{}
	case provider.PromoteToMode:
		return e.EnterMode(o.Mode)
	case provider.Dismiss:
		return Effect{Dismiss: true}
	}
	eff := Effect{Outcome: o}
	if remembered(item) {
		e.tracker.Remember(item)
		eff.RecencyChanged = true
	}
	return eff
}

// remembered reports whether using item is recorded. Codes and generated
// values are ephemeral, so they never show up as recents.
func remembered(item result.Item) bool {
	switch item.Kind {
	case result.KindSectionHeader, result.KindTwoFactorCode, result.KindModeResult:
		return false
	}
	return item.ID != ""
}

func (e *Engine) setup(m mode.Mode, s config.Settings) {
	e.query = ""
	e.overlay = nil
	e.route, e.fallback = dispatch.Route{}, dispatch.Route{}
	e.list = result.NewList()

	p, ok := e.registry.Provider(m.Kind())
	if !ok {
		e.showError(provider.Unavailable("no provider for " + m.Kind().String()))
		return
	}
	e.route = p.Route(m, s)
	if m.Kind() == mode.KindNormal {
		if fb := e.registry.Fallback(); fb != nil {
			e.fallback = fb.Route(m, s)
		}
	}

	switch {
	case m.Kind() == mode.KindNormal:
		e.present(nil, nil)
	case isStateful(p):
		items, err := p.(provider.Stateful).Enter(m, s)
		e.present(items, err)
	default:
		e.pending.merge(e.SetQuery(""))
	}

	e.startSlots(p, m, s)
}

// startSlots schedules the independently resolving rows of a slotted
// provider.
func (e *Engine) startSlots(p provider.Provider, m mode.Mode, s config.Settings) {
	if sp, ok := p.(provider.Slotted); ok {
		if slots := sp.Slots(m, s); len(slots) > 0 {
			e.pending.SlotJobs = append(e.pending.SlotJobs, e.dispatcher.Slots(m.Key(), slots)...)
		}
	}
}

func isStateful(p provider.Provider) bool {
	_, ok := p.(provider.Stateful)
	return ok
}

func (e *Engine) teardown(m mode.Mode) {
	e.dispatcher.Cancel()
	if p, ok := e.registry.Provider(m.Kind()); ok {
		if sp, ok := p.(provider.Stateful); ok {
			sp.Exit(m)
		}
	}
	e.query = ""
	e.overlay = nil
	e.route, e.fallback = dispatch.Route{}, dispatch.Route{}
	e.list = result.NewList()
}

// refresh rebuilds the routes of the active mode from a new settings
// snapshot and reruns the current query. With an empty query a stateful
// provider supplies its first rows again, from m's payload.
func (e *Engine) refresh(m mode.Mode, s config.Settings) {
	p, ok := e.registry.Provider(m.Kind())
	if !ok {
		return
	}
	e.route = p.Route(m, s)
	if m.Kind() == mode.KindNormal {
		if fb := e.registry.Fallback(); fb != nil {
			e.fallback = fb.Route(m, s)
		}
	}
	if e.query == "" && m.Kind() != mode.KindNormal && isStateful(p) {
		e.dispatcher.Cancel()
		items, err := p.(provider.Stateful).Enter(m, s)
		e.present(items, err)
		e.startSlots(p, m, s)
		return
	}
	if e.query != "" || m.Kind() == mode.KindNormal {
		e.pending.merge(e.SetQuery(e.query))
	}
}

func (e *Engine) takePending() Effect {
	eff := e.pending
	e.pending = Effect{}
	return eff
}

// present replaces the list with the arranged rows of a search.
func (e *Engine) present(items []result.Item, err error) {
	if err != nil {
		e.showError(err)
		return
	}
	e.list.Replace(e.arrange(items))
	e.list.ResetSelection()
}

func (e *Engine) arrange(primary []result.Item) []result.Item {
	s := e.Settings()
	if e.Mode().Kind() != mode.KindNormal {
		if strings.TrimSpace(e.query) == "" {
			return primary
		}
		return rank.Rank(rank.Input{Query: e.query, Primary: primary, Recency: e.tracker})
	}
	return rank.Rank(rank.Input{
		Query:         e.query,
		Primary:       primary,
		Fallback:      e.fallbackRows(),
		Aliases:       alias.Resolve(e.query, s.Aliases),
		Recency:       e.tracker,
		StartExpanded: s.StartExpanded,
		Recents:       e.recents(s.RecentLimit),
	})
}

func (e *Engine) fallbackRows() []result.Item {
	if e.fallback.Search == nil || strings.TrimSpace(e.query) == "" {
		return nil
	}
	items, err := e.fallback.Search(context.Background(), e.query)
	if err != nil {
		debuglog.Warnf("fallback search: %v", err)
		return nil
	}
	return items
}

func (e *Engine) recents(limit int) []result.Item {
	snaps := e.tracker.Snapshots(limit)
	if len(snaps) == 0 {
		return nil
	}
	return append([]result.Item{result.Header(recentHeader)}, snaps...)
}

// showError replaces the list with a single informational row.
func (e *Engine) showError(err error) {
	var row result.Item
	switch {
	case errors.Is(err, provider.ErrUnavailable):
		reason := strings.TrimPrefix(err.Error(), provider.ErrUnavailable.Error()+": ")
		row = result.Info(unavailableID, "Unavailable", reason)
	case errors.Is(err, dispatch.ErrTimeout):
		row = result.Info(failureID, "Search timed out", err.Error())
	default:
		debuglog.WithFields(debuglog.Fields{"mode": e.Mode().Key()}).Warnf("search failed: %v", err)
		row = result.Info(failureID, "Search failed", err.Error())
	}
	e.list = result.NewList(row)
}
