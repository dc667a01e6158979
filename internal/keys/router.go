// Package keys maps raw key events to launcher actions.
package keys

import (
	"unicode"

	"github.com/pders01/qlaunch/internal/nav"
)

// Key is a key identity independent of any terminal library.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyReturn
	KeyEscape
	KeyTab
	KeyDelete
	KeySpace
	KeyOther
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModCmd
	ModAlt
	ModShift
)

// Event is one key press. Composing is set while an input method is
// building a character.
type Event struct {
	Key       Key
	Runes     []rune
	Mods      Modifiers
	Composing bool
}

func (e Event) has(m Modifiers) bool { return e.Mods&m != 0 }

// ActionKind is the category a key event is routed to.
type ActionKind int

const (
	PassThrough ActionKind = iota
	TextEdited
	MoveSelection
	Confirm
	Cancel
	ExitMode
	PromoteToMode
	ToggleOverlay
)

func (k ActionKind) String() string {
	switch k {
	case PassThrough:
		return "pass-through"
	case TextEdited:
		return "text-edited"
	case MoveSelection:
		return "move"
	case Confirm:
		return "confirm"
	case Cancel:
		return "cancel"
	case ExitMode:
		return "exit-mode"
	case PromoteToMode:
		return "promote"
	case ToggleOverlay:
		return "toggle-overlay"
	}
	return "unknown"
}

// Action is a routed key event. Dir is set for MoveSelection.
type Action struct {
	Kind ActionKind
	Dir  nav.Direction
}

// State is the engine state routing depends on.
type State struct {
	QueryEmpty    bool
	InMode        bool
	OverlayActive bool
	Grid          bool
}

// Router turns events into actions. OverlayRune is the letter that,
// combined with Ctrl or Cmd, toggles the quick-actions overlay.
type Router struct {
	OverlayRune rune
}

func NewRouter(overlayRune rune) Router {
	if overlayRune == 0 {
		overlayRune = 'k'
	}
	return Router{OverlayRune: unicode.ToLower(overlayRune)}
}

func (r Router) isOverlayToggle(ev Event) bool {
	return ev.Key == KeyRune && (ev.has(ModCtrl) || ev.has(ModCmd)) &&
		len(ev.Runes) == 1 && unicode.ToLower(ev.Runes[0]) == r.OverlayRune
}

// Route decides what ev means in state st. Rules apply in order: input
// method composition passes everything through, the quick-actions overlay
// takes only its own keys, then keys are dispatched on their identity.
func (r Router) Route(ev Event, st State) Action {
	if ev.Composing {
		return Action{Kind: PassThrough}
	}
	if st.OverlayActive {
		return r.routeOverlay(ev)
	}
	if r.isOverlayToggle(ev) {
		return Action{Kind: ToggleOverlay}
	}

	switch ev.Key {
	case KeyDelete:
		if st.QueryEmpty && st.InMode {
			return Action{Kind: ExitMode}
		}
		return Action{Kind: TextEdited}
	case KeyTab:
		if st.InMode || ev.has(ModShift) {
			return Action{Kind: PassThrough}
		}
		return Action{Kind: PromoteToMode}
	case KeyEscape:
		return Action{Kind: Cancel}
	case KeyReturn:
		return Action{Kind: Confirm}
	case KeyUp:
		return Action{Kind: MoveSelection, Dir: nav.Up}
	case KeyDown:
		return Action{Kind: MoveSelection, Dir: nav.Down}
	case KeyLeft, KeyRight:
		if !st.Grid {
			return Action{Kind: PassThrough}
		}
		dir := nav.Left
		if ev.Key == KeyRight {
			dir = nav.Right
		}
		return Action{Kind: MoveSelection, Dir: dir}
	case KeyRune, KeySpace:
		if ev.has(ModCtrl) || ev.has(ModCmd) || ev.has(ModAlt) {
			return Action{Kind: PassThrough}
		}
		return Action{Kind: TextEdited}
	}
	return Action{Kind: PassThrough}
}

func (r Router) routeOverlay(ev Event) Action {
	switch {
	case ev.Key == KeyUp:
		return Action{Kind: MoveSelection, Dir: nav.Up}
	case ev.Key == KeyDown:
		return Action{Kind: MoveSelection, Dir: nav.Down}
	case ev.Key == KeyReturn:
		return Action{Kind: Confirm}
	case ev.Key == KeyEscape:
		return Action{Kind: Cancel}
	case r.isOverlayToggle(ev):
		return Action{Kind: ToggleOverlay}
	}
	return Action{Kind: PassThrough}
}
