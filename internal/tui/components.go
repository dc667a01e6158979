package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/qlaunch/internal/engine"
	"github.com/pders01/qlaunch/internal/nav"
	"github.com/pders01/qlaunch/internal/result"
)

// renderQueryBar draws the mode badge, the prompt and the query input.
func (a *App) renderQueryBar() string {
	parts := []string{a.theme.Prompt.Render("›")}
	if label := a.modeLabel(); label != "" {
		parts = append(parts, a.theme.Badge.Render(label))
	}
	parts = append(parts, a.input.View())
	if a.searching() {
		parts = append(parts, a.spinner.View()+a.theme.Hint.Render(MsgSearching))
	} else if n := selectableCount(a.engine.List()); n > 0 {
		parts = append(parts, a.theme.Hint.Render(MsgResultsCount(n)))
	}
	return strings.Join(parts, " ")
}

func selectableCount(l result.List) int {
	n := 0
	for i := 0; i < l.Len(); i++ {
		if l.Selectable(i) {
			n++
		}
	}
	return n
}

// renderRows draws the result list, scrolled so the selection stays within
// height rows.
func (a *App) renderRows(l result.List, width, height int) string {
	if l.Len() == 0 {
		return a.theme.Hint.Render(MsgNoResults)
	}
	if height < 1 {
		height = 1
	}
	start := 0
	if sel := l.SelectedIndex(); sel >= height {
		start = sel - height + 1
	}
	end := min(l.Len(), start+height)

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, a.renderRow(l.At(i), i == l.SelectedIndex(), width))
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderRow(it result.Item, selected bool, width int) string {
	if it.Kind == result.KindSectionHeader {
		return a.theme.Header.Render(truncateEnd(strings.ToUpper(it.Title), width))
	}

	marker := "  "
	if selected {
		marker = "› "
	}
	title := withMarker(it)
	if it.AliasBadge != "" {
		title += " " + a.theme.Alias.Render(it.AliasBadge)
	}
	hint := ""
	if it.SupportsPromotion() {
		hint = " ⇥"
	}

	room := width - lipgloss.Width(marker+title+hint) - 3
	sub := rowSubtitle(it)
	if it.Kind == result.KindFile {
		sub = truncateMiddle(sub, room)
	} else {
		sub = truncateEnd(sub, room)
	}

	line := marker + title
	if selected {
		line = a.theme.Selected.Render(line)
	} else {
		line = a.theme.Title.Render(line)
	}
	if sub != "" {
		line += "   " + a.theme.Subtitle.Render(sub)
	}
	return line + a.theme.Hint.Render(hint)
}

// rowSubtitle is the muted text after a row's title. Rows with process
// stats show those instead of a plain subtitle.
func rowSubtitle(it result.Item) string {
	if s := it.Stats; s != nil {
		parts := []string{fmt.Sprintf("%.1f%% cpu", s.CPU), fmt.Sprintf("%.0f MB", s.MemoryMB)}
		if s.Port > 0 {
			parts = append(parts, fmt.Sprintf(":%d", s.Port))
		}
		return strings.Join(parts, " · ")
	}
	return it.Subtitle
}

// renderGrid lays the list out in g.Columns cells per row.
func (a *App) renderGrid(l result.List, g nav.Grid, width, height int) string {
	if l.Len() == 0 {
		return a.theme.Hint.Render(MsgNoResults)
	}
	cols := max(g.Columns, 1)
	g.Columns = cols
	cellWidth := max(width/cols-4, 6)
	// each cell is three lines tall with its border
	visible := max(height/3, 1)

	selRow, _ := g.Position(l.SelectedIndex())
	first := 0
	if selRow >= visible {
		first = selRow - visible + 1
	}

	var lines []string
	for row := first; row < g.Rows() && row < first+visible; row++ {
		cells := make([]string, 0, cols)
		for col := 0; col < cols; col++ {
			i := row*cols + col
			if i >= l.Len() {
				break
			}
			it := l.At(i)
			style := a.theme.Cell
			if i == l.SelectedIndex() {
				style = a.theme.CellFocus
			}
			cells = append(cells, style.Width(cellWidth).Render(truncateEnd(withMarker(it), cellWidth)))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	if it, ok := l.Selected(); ok && it.Subtitle != "" {
		lines = append(lines, a.theme.Subtitle.Render(truncateEnd(it.Subtitle, width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderOverlay draws the quick-actions menu with the row's details.
func (a *App) renderOverlay(o *engine.Overlay, width int) string {
	rows := make([]string, 0, len(o.Actions))
	for i, act := range o.Actions {
		if i == o.Selected {
			rows = append(rows, a.theme.Selected.Render("› "+act.Title))
			continue
		}
		rows = append(rows, a.theme.Title.Render("  "+act.Title))
	}

	detail := a.viewport.View()
	if a.detailID != o.Target.ID {
		detail = a.theme.Header.Render(o.Target.Title)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		detail,
		a.theme.Separator.Render(strings.Repeat("─", max(width-6, 1))),
		strings.Join(rows, "\n"),
	)
	return a.theme.Overlay.Width(max(width-4, 10)).Render(body)
}

func (a *App) renderSeparator() string {
	return a.theme.Separator.Render(strings.Repeat("─", max(a.width-2, 0)))
}

// renderFooter shows the status message if there is one, and the help
// bar otherwise.
func (a *App) renderFooter() string {
	if a.status != "" {
		return lipgloss.NewStyle().
			Width(a.width).
			Padding(0, 1).
			Render(a.statusStyle().Render(a.status))
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Render(a.help.View(a.keyHandler.helpKeys()))
}

// truncateEnd shortens s to at most limit runes, ending in an ellipsis
// when anything was cut.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle keeps both ends of s, which is what matters for paths.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	left := (limit - 1) / 2
	right := limit - 1 - left
	return string(r[:left]) + "…" + string(r[len(r)-right:])
}

func withMarker(it result.Item) string {
	if it.Marker == "" {
		return it.Title
	}
	return it.Marker + " " + it.Title
}
