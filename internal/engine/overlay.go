package engine

import (
	"github.com/pders01/qlaunch/internal/debuglog"
	"github.com/pders01/qlaunch/internal/keys"
	"github.com/pders01/qlaunch/internal/nav"
	"github.com/pders01/qlaunch/internal/provider"
	"github.com/pders01/qlaunch/internal/result"
)

// Overlay is the quick-actions menu of one row. It sits on top of the
// active mode and has its own selection.
type Overlay struct {
	Target   result.Item
	Actions  []provider.Action
	Selected int
}

// Current returns the highlighted action.
func (o *Overlay) Current() (provider.Action, bool) {
	if o == nil || o.Selected < 0 || o.Selected >= len(o.Actions) {
		return provider.Action{}, false
	}
	return o.Actions[o.Selected], true
}

func (o *Overlay) move(dir nav.Direction) {
	switch dir {
	case nav.Up, nav.Left:
		if o.Selected > 0 {
			o.Selected--
		}
	case nav.Down, nav.Right:
		if o.Selected < len(o.Actions)-1 {
			o.Selected++
		}
	}
}

// actionsFor lists the default actions of item followed by those of the
// active provider.
func (e *Engine) actionsFor(item result.Item) []provider.Action {
	actions := provider.DefaultActions(item)
	if p, ok := e.registry.Provider(e.Mode().Kind()); ok {
		if a, ok := p.(provider.Actioner); ok {
			actions = append(actions, a.Actions(item)...)
		}
	}
	return actions
}

// openOverlay shows the quick actions of the selected row. Rows without
// actions open nothing.
func (e *Engine) openOverlay() {
	item, ok := e.list.Selected()
	if !ok {
		return
	}
	actions := e.actionsFor(item)
	if len(actions) == 0 {
		return
	}
	e.overlay = &Overlay{Target: item, Actions: actions}
}

// CloseOverlay dismisses the quick-actions overlay without acting.
func (e *Engine) CloseOverlay() {
	e.overlay = nil
}

func (e *Engine) handleOverlay(act keys.Action) Effect {
	switch act.Kind {
	case keys.MoveSelection:
		e.overlay.move(act.Dir)
	case keys.Cancel, keys.ToggleOverlay:
		e.overlay = nil
	case keys.Confirm:
		return e.runAction()
	}
	return Effect{}
}

// runAction performs the highlighted action and closes the overlay. An
// action with side effects reruns the current query so rows reflect them.
func (e *Engine) runAction() Effect {
	o := e.overlay
	e.overlay = nil
	a, ok := o.Current()
	if !ok {
		return Effect{}
	}

	var eff Effect
	if a.Do != nil {
		if err := a.Do(); err != nil {
			debuglog.WithFields(debuglog.Fields{"action": a.ID, "item": o.Target.ID}).Warnf("quick action failed: %v", err)
			return Effect{Err: err}
		}
		eff.merge(e.SetQuery(e.query))
	}
	eff.merge(e.apply(o.Target, a.Outcome))
	return eff
}
