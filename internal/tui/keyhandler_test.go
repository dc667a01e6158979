package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/keys"
)

func TestKeyHandler_ModifierKeys(t *testing.T) {
	ta := newTestApp(t)
	assert.Equal(t, "ctrl+c", ta.keyHandler.quitKey)
	assert.Equal(t, "ctrl+g", ta.keyHandler.helpKey)
	assert.Equal(t, 'k', ta.keyHandler.OverlayRune())

	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	cfg.Keys.Bindings.Quit = "Q"
	cfg.Keys.Bindings.QuickActions = "p"
	kh := NewKeyHandler(ta.App, cfg)
	assert.Equal(t, "alt+q", kh.quitKey)
	assert.Equal(t, keys.ModCmd, kh.modifier)
	assert.Equal(t, 'p', kh.OverlayRune())
}

func TestKeyHandler_Event(t *testing.T) {
	ta := newTestApp(t)
	ctrl := ta.keyHandler

	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	alt := NewKeyHandler(ta.App, cfg)

	tests := []struct {
		name    string
		handler *KeyHandler
		msg     tea.KeyMsg
		want    keys.Event
		ok      bool
	}{
		{"rune", ctrl, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, keys.Event{Key: keys.KeyRune, Runes: []rune("a")}, true},
		{"space", ctrl, tea.KeyMsg{Type: tea.KeySpace}, keys.Event{Key: keys.KeySpace, Runes: []rune(" ")}, true},
		{"backspace", ctrl, tea.KeyMsg{Type: tea.KeyBackspace}, keys.Event{Key: keys.KeyDelete}, true},
		{"ctrl+h is backspace", ctrl, tea.KeyMsg{Type: tea.KeyCtrlH}, keys.Event{Key: keys.KeyDelete}, true},
		{"tab", ctrl, tea.KeyMsg{Type: tea.KeyTab}, keys.Event{Key: keys.KeyTab}, true},
		{"shift+tab", ctrl, tea.KeyMsg{Type: tea.KeyShiftTab}, keys.Event{Key: keys.KeyTab, Mods: keys.ModShift}, true},
		{"escape", ctrl, tea.KeyMsg{Type: tea.KeyEsc}, keys.Event{Key: keys.KeyEscape}, true},
		{"enter", ctrl, tea.KeyMsg{Type: tea.KeyEnter}, keys.Event{Key: keys.KeyReturn}, true},
		{"left", ctrl, tea.KeyMsg{Type: tea.KeyLeft}, keys.Event{Key: keys.KeyLeft}, true},
		{"down", ctrl, tea.KeyMsg{Type: tea.KeyDown}, keys.Event{Key: keys.KeyDown}, true},
		{"ctrl+k", ctrl, tea.KeyMsg{Type: tea.KeyCtrlK}, keys.Event{Key: keys.KeyRune, Runes: []rune("k"), Mods: keys.ModCtrl}, true},
		{"alt+k with ctrl modifier", ctrl, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k"), Alt: true}, keys.Event{Key: keys.KeyRune, Runes: []rune("k"), Mods: keys.ModAlt}, true},
		{"alt+k with alt modifier", alt, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k"), Alt: true}, keys.Event{Key: keys.KeyRune, Runes: []rune("k"), Mods: keys.ModAlt | keys.ModCmd}, true},
		{"function key", ctrl, tea.KeyMsg{Type: tea.KeyF5}, keys.Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.handler.event(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestKeyHandler_AltModifierOpensOverlay(t *testing.T) {
	ta := newTestApp(t)
	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	ta.keyHandler = NewKeyHandler(ta.App, cfg)
	ta.init()
	ta.typeText("calc")

	ta.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k"), Alt: true})
	assert.NotNil(t, ta.engine.Overlay())
	assert.Equal(t, "calc", ta.engine.Query())
}

func TestKeyHandler_HelpFollowsState(t *testing.T) {
	ta := newTestApp(t)
	ta.init()

	helpText := func() string {
		var parts []string
		for _, b := range ta.keyHandler.helpKeys().ShortHelp() {
			parts = append(parts, b.Help().Desc)
		}
		return strings.Join(parts, " ")
	}

	assert.Contains(t, helpText(), "close")
	ta.typeText("ip")
	assert.Contains(t, helpText(), "expand", "utility rows can be promoted")

	ta.send(tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, helpText(), "back")
	assert.NotContains(t, helpText(), "expand")
}
