package tui

import (
	"fmt"
	"math"
	"strings"

	"dayplan/internal/grid"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')
	b.WriteString(m.gridView())
	b.WriteString(m.statusView())
	return b.String()
}

func (m appModel) headerView() string {
	cal := m.currentCalendar()
	title := "dayplan"
	if cal != nil {
		title = cal.Name
		if len(m.set.Calendars) > 1 {
			title = fmt.Sprintf("%s (%d/%d)", cal.Name, m.calIdx+1, len(m.set.Calendars))
		}
	}
	left := styleHeader().Render(" " + title)
	right := styleChrome().Render(m.now.Format("Mon Jan 2") + " ")
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func (m appModel) gridView() string {
	rects := m.eventRects()
	ppr := m.pxPerRow()
	nowRow := int(math.Round(m.metrics.TimeToTop(m.now.Hour(), m.now.Minute()) / ppr))

	var b strings.Builder
	for i := 0; i < m.gridRows(); i++ {
		row := m.scrollRows + i
		b.WriteString(m.gutterCell(row, nowRow))
		b.WriteString(m.rowContent(row, rects))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m appModel) gutterCell(row, nowRow int) string {
	if row == nowRow {
		return styleNow().Render(fmt.Sprintf("%5s ▶", m.now.Format("15:04")))
	}
	if row%rowsPerHour == 0 {
		hour := (grid.DayStartHour + row/rowsPerHour) % 24
		return styleChrome().Render(fmt.Sprintf("%02d:00 ▏", hour))
	}
	return styleMuted().Render("      ▏")
}

func (m appModel) rowContent(row int, rects []eventRect) string {
	cw := m.width - gutterWidth
	if cw < 1 {
		return ""
	}

	var segs []eventRect
	for _, r := range rects {
		if row < r.topRow || row >= r.topRow+r.rows {
			continue
		}
		if r.floating {
			// The dragged block floats above the whole row.
			segs = []eventRect{r}
			break
		}
		segs = append(segs, r)
	}

	filler := " "
	fillStyle := lipgloss.NewStyle()
	if row%rowsPerHour == 0 {
		filler = "┈"
		fillStyle = styleMuted()
	}

	var b strings.Builder
	cur := gutterWidth
	for _, s := range segs {
		if s.x0 > cur {
			b.WriteString(fillStyle.Render(strings.Repeat(filler, s.x0-cur)))
			cur = s.x0
		}
		b.WriteString(m.eventCell(s, row))
		cur = s.x0 + s.w
	}
	if end := gutterWidth + cw; cur < end {
		b.WriteString(fillStyle.Render(strings.Repeat(filler, end-cur)))
	}
	return b.String()
}

func (m appModel) eventCell(r eventRect, row int) string {
	st := styleEvent(r.ev.Color, m.machine.IsSelected(r.ev.ID))
	local := row - r.topRow

	var text string
	switch {
	case local == 0 && m.machine.EditingID() == r.ev.ID:
		text = " " + m.input.View()
	case local == 0:
		text = " " + r.ev.Title
		if r.w >= lipgloss.Width(r.ev.Title)+9 {
			text = fmt.Sprintf(" %s %02d:%02d", r.ev.Title, r.ev.StartHour, r.ev.StartMinute)
		}
	case local == r.rows-1 && r.rows >= 2:
		return st.Render(strings.Repeat("▁", r.w))
	default:
		text = ""
	}

	text = ansi.Truncate(text, r.w, "…")
	if pad := r.w - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return st.Render(text)
}

func (m appModel) statusView() string {
	var parts []string
	if n := m.machine.SelectionLen(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	parts = append(parts, fmt.Sprintf("color %d", m.machine.NextColor()+1))
	parts = append(parts, "? help")

	left := " " + strings.Join(parts, "  ·  ")
	if m.statusErr != "" {
		left = " " + lipgloss.NewStyle().Foreground(colorNowMarker).Render(m.statusErr)
	}
	return styleChrome().Render(ansi.Truncate(left, m.width, "…"))
}
