package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMD = `
# dayplan

Direct manipulation on the day grid. All times snap to 15 minutes.

## Mouse

* **Drag on empty grid** — create an event, then type its title
* **Drag an event** — move it; overlapping events share the column
* **Drag the bottom edge** — resize
* **Click a title** — rename
* **Click an event** — select; *shift+click* extends the selection
* **Wheel** — scroll the grid

## Keys

* ` + "`1`–`8`" + ` — set the color of the selection (and the next event)
* ` + "`delete`" + ` — delete the selection
* ` + "`tab`" + ` — next calendar
* ` + "`esc`" + ` — clear selection / close this help
* ` + "`q`" + ` — quit
`

var (
	helpOnce     sync.Once
	helpRendered string
)

func (m appModel) helpView() string {
	helpOnce.Do(func() {
		style := "light"
		if lipgloss.HasDarkBackground() {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(72),
		)
		if err != nil {
			helpRendered = helpMD
			return
		}
		out, err := r.Render(helpMD)
		if err != nil {
			helpRendered = helpMD
			return
		}
		helpRendered = out
	})

	body := strings.TrimRight(helpRendered, "\n")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
