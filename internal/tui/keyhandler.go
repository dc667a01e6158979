package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/keys"
)

// KeyHandler turns terminal key presses into launcher key events. Quit and
// help are host keys; everything else goes through the engine's router.
type KeyHandler struct {
	app         *App
	modifier    keys.Modifiers
	modifierKey string
	quitKey     string
	helpKey     string
	overlayRune rune
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifier := strings.ToLower(strings.TrimSpace(cfg.Keys.Modifier))
	if modifier == "" {
		modifier = "ctrl"
	}
	kh := &KeyHandler{
		app:         app,
		modifier:    keys.ModCtrl,
		modifierKey: modifier + "+",
		overlayRune: 'k',
	}
	if modifier == "alt" {
		// Terminals have no command key; alt stands in for it.
		kh.modifier = keys.ModCmd
	}
	kh.quitKey = kh.modifierKey + orBinding(cfg.Keys.Bindings.Quit, "c")
	kh.helpKey = kh.modifierKey + orBinding(cfg.Keys.Bindings.Help, "g")
	if r := []rune(cfg.Keys.Bindings.QuickActions); len(r) == 1 {
		kh.overlayRune = r[0]
	}
	return kh
}

func orBinding(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}

// OverlayRune is the letter that opens quick actions together with the
// modifier.
func (kh *KeyHandler) OverlayRune() rune { return kh.overlayRune }

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", kh.quitKey:
		return kh.app, kh.app.quit()
	case kh.helpKey, "f1":
		kh.app.help.ShowAll = !kh.app.help.ShowAll
		return kh.app, nil
	}
	ev, ok := kh.event(msg)
	if !ok {
		return kh.app, nil
	}
	return kh.app, kh.app.apply(kh.app.engine.HandleKey(ev))
}

// event converts a bubbletea key message. Keys the launcher has no use for
// report false.
func (kh *KeyHandler) event(msg tea.KeyMsg) (keys.Event, bool) {
	var ev keys.Event
	if msg.Alt {
		ev.Mods |= keys.ModAlt
		if kh.modifier == keys.ModCmd {
			ev.Mods |= keys.ModCmd
		}
	}

	switch msg.Type {
	case tea.KeyRunes:
		ev.Key = keys.KeyRune
		ev.Runes = msg.Runes
	case tea.KeySpace:
		ev.Key = keys.KeySpace
		ev.Runes = []rune{' '}
	case tea.KeyBackspace, tea.KeyCtrlH:
		ev.Key = keys.KeyDelete
	case tea.KeyTab:
		ev.Key = keys.KeyTab
	case tea.KeyShiftTab:
		ev.Key = keys.KeyTab
		ev.Mods |= keys.ModShift
	case tea.KeyEsc:
		ev.Key = keys.KeyEscape
	case tea.KeyEnter:
		ev.Key = keys.KeyReturn
	case tea.KeyUp:
		ev.Key = keys.KeyUp
	case tea.KeyDown:
		ev.Key = keys.KeyDown
	case tea.KeyLeft:
		ev.Key = keys.KeyLeft
	case tea.KeyRight:
		ev.Key = keys.KeyRight
	default:
		if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
			ev.Key = keys.KeyRune
			ev.Runes = []rune{rune('a' + int(msg.Type-tea.KeyCtrlA))}
			ev.Mods |= keys.ModCtrl
			return ev, true
		}
		return ev, false
	}
	return ev, true
}

// keyMap feeds the help bar. Its bindings follow the launcher state.
type keyMap struct {
	bindings []key.Binding
	extra    []key.Binding
}

func (k keyMap) ShortHelp() []key.Binding { return k.bindings }

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings, k.extra}
}

func binding(keyName, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keyName), key.WithHelp(keyName, desc))
}

// helpKeys describes the keys that do something right now.
func (kh *KeyHandler) helpKeys() keyMap {
	overlay := kh.modifierKey + string(kh.overlayRune)
	extra := []key.Binding{
		binding(kh.helpKey, "toggle help"),
		binding(kh.quitKey, "quit"),
	}

	if kh.app.engine.Overlay() != nil {
		return keyMap{
			bindings: []key.Binding{
				binding("↑/↓", "choose"),
				binding("enter", "run"),
				binding("esc", "close"),
			},
			extra: extra,
		}
	}

	move := "↑/↓"
	if _, grid := kh.app.engine.Grid(); grid {
		move = "arrows"
	}
	bindings := []key.Binding{
		binding(move, "move"),
		binding("enter", "open"),
		binding(overlay, "actions"),
	}
	if kh.app.inMode() {
		bindings = append(bindings, binding("⌫", "back"), binding("esc", "exit"))
	} else {
		if item, ok := kh.app.engine.List().Selected(); ok && item.SupportsPromotion() {
			bindings = append(bindings, binding("tab", "expand"))
		}
		bindings = append(bindings, binding("esc", "close"))
	}
	return keyMap{bindings: bindings, extra: extra}
}
