// Package provider holds the per-domain result sources consulted by the
// launcher engine, and the outcomes confirming a row can produce.
package provider

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
)

// ErrUnavailable marks a provider whose collaborator is missing or
// misconfigured. The engine shows the reason as a single row.
var ErrUnavailable = errors.New("unavailable")

// Unavailable wraps ErrUnavailable with a user facing reason.
func Unavailable(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, reason)
}

// Provider serves the rows of one mode kind.
type Provider interface {
	// Route returns the search function for m, built from the settings
	// snapshot taken when m was entered.
	Route(m mode.Mode, s config.Settings) dispatch.Route
}

// Stateful providers supply the initial rows on entry and release
// mode-local resources on exit.
type Stateful interface {
	Enter(m mode.Mode, s config.Settings) ([]result.Item, error)
	Exit(m mode.Mode)
}

// Confirmer overrides the default outcome of confirming a row.
type Confirmer interface {
	Confirm(m mode.Mode, item result.Item) Outcome
}

// Slotted providers resolve some rows independently after entry.
type Slotted interface {
	Slots(m mode.Mode, s config.Settings) []dispatch.Slot
}

// Actioner adds provider specific quick actions for a row.
type Actioner interface {
	Actions(item result.Item) []Action
}

type OutcomeKind int

const (
	NoOp OutcomeKind = iota
	OpenExternal
	CopyToClipboard
	PromoteToMode
	Dismiss
	Execute
)

func (k OutcomeKind) String() string {
	switch k {
	case OpenExternal:
		return "open"
	case CopyToClipboard:
		return "copy"
	case PromoteToMode:
		return "promote"
	case Dismiss:
		return "dismiss"
	case Execute:
		return "execute"
	}
	return "noop"
}

// Outcome is what confirming a row asks the host to do.
type Outcome struct {
	Kind OutcomeKind
	// Target is opened (OpenExternal) or run (Execute).
	Target string
	// With optionally names the application for OpenExternal.
	With string
	Text string
	Mode mode.Mode
}

func Open(target, with string) Outcome {
	return Outcome{Kind: OpenExternal, Target: target, With: with}
}

func Copy(text string) Outcome { return Outcome{Kind: CopyToClipboard, Text: text} }

func Promote(m mode.Mode) Outcome { return Outcome{Kind: PromoteToMode, Mode: m} }

func Run(command string) Outcome { return Outcome{Kind: Execute, Target: command} }

// Action is one entry of the quick-actions overlay. Do, when set, runs
// before the outcome is handed to the host.
type Action struct {
	ID      string
	Title   string
	Outcome Outcome
	Do      func() error
}

// DefaultOutcome is the confirm behaviour of rows whose provider does not
// implement Confirmer.
func DefaultOutcome(item result.Item) Outcome {
	switch item.Kind {
	case result.KindSectionHeader:
		return Outcome{}
	case result.KindApp, result.KindFile, result.KindWebLink, result.KindBookmark,
		result.KindMemeEntry, result.KindFavoriteEntry:
		if item.Target == "" {
			return Outcome{}
		}
		return Open(item.Target, item.With)
	case result.KindSystemCommand:
		return Run(item.Target)
	case result.KindTwoFactorCode:
		return Copy(item.Value)
	case result.KindUtility:
		return Promote(mode.Utility{ID: item.Target})
	}

	if d, ok := domainMode(item); ok {
		return Promote(d)
	}
	switch {
	case item.Value != "":
		return Copy(item.Value)
	case item.Target != "":
		return Open(item.Target, item.With)
	}
	return Outcome{}
}

// DefaultActions are the quick actions every row with a target offers.
func DefaultActions(item result.Item) []Action {
	var actions []Action
	if o := DefaultOutcome(item); o.Kind != NoOp {
		actions = append(actions, Action{ID: "default", Title: defaultTitle(o), Outcome: o})
	}
	switch item.Kind {
	case result.KindFile, result.KindApp:
		if item.Target != "" {
			actions = append(actions,
				Action{ID: "reveal", Title: "Reveal in folder", Outcome: Open(filepath.Dir(item.Target), "")},
				Action{ID: "copy-path", Title: "Copy path", Outcome: Copy(item.Target)},
			)
		}
	case result.KindWebLink, result.KindBookmark, result.KindMemeEntry, result.KindFavoriteEntry:
		if item.Target != "" {
			actions = append(actions, Action{ID: "copy-link", Title: "Copy link", Outcome: Copy(item.Target)})
		}
	}
	if item.Value != "" && item.Kind != result.KindMemeEntry && item.Kind != result.KindFavoriteEntry {
		actions = append(actions, Action{ID: "copy-value", Title: "Copy", Outcome: Copy(item.Value)})
	}
	return actions
}

func defaultTitle(o Outcome) string {
	switch o.Kind {
	case OpenExternal:
		if o.With != "" {
			return "Open with " + o.With
		}
		return "Open"
	case CopyToClipboard:
		return "Copy"
	case PromoteToMode:
		return "Enter " + mode.Label(o.Mode)
	case Execute:
		return "Run"
	}
	return o.Kind.String()
}
