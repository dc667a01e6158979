package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/qlaunch/internal/config"
)

const AppName = "qlaunch"

// LogoLines is the block-letter logo shown by the version command.
var LogoLines = []string{
	" ▄▄▄▄  ▄▄      ▄▄▄  ▄▄  ▄▄ ▄▄  ▄▄  ▄▄▄▄ ▄▄  ▄▄",
	"██  ██ ██     ██▀██ ██  ██ ███▄██ ██▀▀▀ ██  ██",
	"██▄▄██ ██     ██▀██ ██  ██ ██▀███ ██    ██▀▀██",
	" ▀▀███ ▀▀▀▀▀▀ ▀▀ ▀▀  ▀▀▀▀  ▀▀  ▀▀  ▀▀▀▀ ▀▀  ▀▀",
}

const CompactLogo = `qlaunch ›`

// BannerColors is the gradient applied line by line to the logo.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
}

// Theme holds the styles of the launcher window, derived from the [ui.colors]
// section of the config.
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color

	Prompt    lipgloss.Style
	Badge     lipgloss.Style
	Header    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Selected  lipgloss.Style
	Alias     lipgloss.Style
	Hint      lipgloss.Style
	Separator lipgloss.Style
	Overlay   lipgloss.Style
	Cell      lipgloss.Style
	CellFocus lipgloss.Style
	Help      lipgloss.Style

	StatusInfo    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarn    lipgloss.Style
	StatusError   lipgloss.Style
}

func orColor(v, def string) lipgloss.Color {
	if v == "" {
		return lipgloss.Color(def)
	}
	return lipgloss.Color(v)
}

// NewTheme builds the styles for c. Empty colors fall back to the
// built-in palette.
func NewTheme(c config.UIColors) Theme {
	t := Theme{
		Primary: orColor(c.Primary, "#FF6B6B"),
		Accent:  orColor(c.Accent, "#95E1D3"),
		Muted:   orColor(c.Muted, "#94A3B8"),
		Error:   orColor(c.Error, "#F87171"),
		Success: orColor(c.Success, "#4ADE80"),
	}
	secondary := orColor(c.Secondary, "#4ECDC4")
	background := orColor(c.Background, "#1A1A2E")
	surface := orColor(c.Surface, "#16213E")
	text := orColor(c.Text, "#EAEAEA")

	t.Prompt = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	t.Badge = lipgloss.NewStyle().
		Foreground(text).
		Background(surface).
		Bold(true).
		Padding(0, 1)
	t.Header = lipgloss.NewStyle().Foreground(secondary).Bold(true)
	t.Title = lipgloss.NewStyle().Foreground(text)
	t.Subtitle = lipgloss.NewStyle().Foreground(t.Muted)
	t.Selected = lipgloss.NewStyle().
		Foreground(background).
		Background(t.Accent).
		Bold(true)
	t.Alias = lipgloss.NewStyle().Foreground(t.Primary).Italic(true)
	t.Hint = lipgloss.NewStyle().Foreground(t.Muted).Faint(true)
	t.Separator = lipgloss.NewStyle().Foreground(t.Muted)
	t.Overlay = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(0, 1)
	t.Cell = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)
	t.CellFocus = t.Cell.BorderForeground(t.Accent).Bold(true)
	t.Help = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)

	t.StatusInfo = lipgloss.NewStyle().Foreground(t.Muted)
	t.StatusSuccess = lipgloss.NewStyle().Foreground(t.Success)
	t.StatusWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	t.StatusError = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	return t
}

// Banner renders the logo with a tagline for version.
func Banner(version string) string {
	lines := make([]string, 0, len(LogoLines)+2)
	lines = append(lines, LogoLines...)
	lines = append(lines, "")

	tag := "Quick Launcher"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tag = fmt.Sprintf("Quick Launcher %s", version)
	}
	lines = append(lines, tag)

	colored := make([]string, 0, len(lines))
	for i, line := range lines {
		if line == "" {
			colored = append(colored, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		colored = append(colored, style.Render(line))
	}

	border := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, colored...))
}

// ShowBanner prints the banner centered in a 70 column box.
func ShowBanner(version string) {
	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginTop(1).
		Render(Banner(version)))
}
