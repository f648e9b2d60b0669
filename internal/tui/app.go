package tui

import (
	"time"

	"dayplan/internal/config"
	"dayplan/internal/gesture"
	"dayplan/internal/grid"
	"dayplan/internal/model"
	"dayplan/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	headerRows  = 1
	statusRows  = 1
	gutterWidth = 7 // "05:00 ▏"
	rowsPerHour = 4 // one row per quarter
	totalRows   = 24 * rowsPerHour
)

type tickMsg time.Time

type appModel struct {
	store   store.Store
	set     *model.CalendarSet
	cfg     config.Config
	metrics grid.Metrics
	machine *gesture.Machine

	calIdx int

	width  int
	height int

	// scrollRows is the index of the first visible grid row.
	scrollRows int

	input    textinput.Model
	showHelp bool

	now time.Time

	status    string
	statusErr string
}

func newAppModel(s store.Store, set *model.CalendarSet, cfg config.Config) appModel {
	metrics := grid.Metrics{SlotHeightPx: float64(cfg.SlotHeightPx), MinutesPerSlot: cfg.MinutesPerSlot}
	m := appModel{
		store:   s,
		set:     set,
		cfg:     cfg,
		metrics: metrics,
		machine: gesture.NewMachine(metrics, s),
		now:     time.Now(),
	}
	m.input = textinput.New()
	m.input.CharLimit = 120
	m.input.Prompt = ""

	m.calIdx = 0
	for i, cal := range set.Calendars {
		if cal.ID == cfg.DefaultCalendar {
			m.calIdx = i
			break
		}
	}
	if len(set.Calendars) > 0 {
		if err := m.machine.SetCalendar(set.Calendars[m.calIdx].ID); err != nil {
			m.statusErr = err.Error()
		}
	}
	if cfg.DefaultColor > 0 && cfg.DefaultColor < model.PaletteSize {
		_ = m.machine.SetColor(cfg.DefaultColor)
	}
	// Open scrolled to the morning.
	m.scrollRows = 0
	return m
}

func (m appModel) Init() tea.Cmd {
	return tickNow()
}

func tickNow() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *appModel) currentCalendar() *model.Calendar {
	if len(m.set.Calendars) == 0 {
		return nil
	}
	if m.calIdx >= len(m.set.Calendars) {
		m.calIdx = 0
	}
	return &m.set.Calendars[m.calIdx]
}

func (m *appModel) switchCalendar(step int) {
	n := len(m.set.Calendars)
	if n < 2 {
		return
	}
	m.calIdx = ((m.calIdx+step)%n + n) % n
	if err := m.machine.SetCalendar(m.set.Calendars[m.calIdx].ID); err != nil {
		m.statusErr = err.Error()
	}
}

// pxPerRow converts between quarter-rows and the pixel space the gesture
// engine works in.
func (m appModel) pxPerRow() float64 {
	return grid.Quantum * m.metrics.SlotHeightPx / float64(m.metrics.MinutesPerSlot)
}

func (m appModel) gridRows() int {
	rows := m.height - headerRows - statusRows
	if rows < 1 {
		rows = 1
	}
	if rows > totalRows {
		rows = totalRows
	}
	return rows
}

func (m appModel) maxScroll() int {
	max := totalRows - m.gridRows()
	if max < 0 {
		return 0
	}
	return max
}

func (m *appModel) clampScroll() {
	if m.scrollRows < 0 {
		m.scrollRows = 0
	}
	if max := m.maxScroll(); m.scrollRows > max {
		m.scrollRows = max
	}
}

// cellToPixel maps a terminal cell to gesture-engine pixel coordinates.
// The y axis is anchored so row 0 of the grid is the top of the day span.
func (m appModel) cellToPixel(cx, cy int) (x, y float64) {
	row := cy - headerRows + m.scrollRows
	y = float64(row) * m.pxPerRow()
	x = float64(cx - gutterWidth)
	return x, y
}
