package tui

import (
	"time"

	"dayplan/internal/gesture"
	"dayplan/internal/log"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickNow()

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.machine.EditingID() != "" {
		return m.updateTitleEdit(msg)
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	m.statusErr = ""
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "tab":
		m.switchCalendar(1)
	case "shift+tab":
		m.switchCalendar(-1)
	case "esc":
		m.machine.ClearSelection()
	case "delete", "backspace", "x":
		// Mutating commands wait for any pointer gesture to settle.
		if m.machine.SessionKind() != gesture.SessionNone {
			return m, nil
		}
		if err := m.machine.DeleteSelected(); err != nil {
			m.fail("delete", err)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8":
		if m.machine.SessionKind() != gesture.SessionNone {
			return m, nil
		}
		idx := int(msg.String()[0] - '1')
		if err := m.machine.SetColor(idx); err != nil {
			m.fail("set color", err)
		}
	case "up", "k":
		m.scrollRows--
		m.clampScroll()
	case "down", "j":
		m.scrollRows++
		m.clampScroll()
	case "pgup":
		m.scrollRows -= m.gridRows() / 2
		m.clampScroll()
	case "pgdown":
		m.scrollRows += m.gridRows() / 2
		m.clampScroll()
	case "home":
		m.scrollRows = 0
	case "end":
		m.scrollRows = m.maxScroll()
	}
	return m, nil
}

func (m appModel) updateTitleEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.machine.FinishTitleEdit(m.input.Value()); err != nil {
			m.fail("rename", err)
		}
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "esc":
		m.machine.CancelTitleEdit()
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress {
			m.scrollRows -= 2
			m.clampScroll()
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress {
			m.scrollRows += 2
			m.clampScroll()
		}
		return m, nil
	}

	// A click while a title edit is open commits the edit first and then
	// lands like any other press. Motion and release are ignored.
	if m.machine.EditingID() != "" {
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if err := m.machine.FinishTitleEdit(m.input.Value()); err != nil {
			m.fail("rename", err)
		}
		m.input.Blur()
		m.input.SetValue("")
	}

	x, y := m.cellToPixel(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.statusErr = ""
		m.machine.PointerDown(x, y, m.hitTest(msg.X, msg.Y), msg.Shift)
	case tea.MouseActionMotion:
		m.machine.PointerMove(x, y)
	case tea.MouseActionRelease:
		res, err := m.machine.PointerUp(x, y, msg.Shift)
		if err != nil {
			m.fail("save", err)
		}
		if res.EditingID != "" {
			m.startTitleInput(res.EditingID, res.CreatedID == res.EditingID)
		}
	}
	return m, nil
}

// startTitleInput opens the inline title editor. A freshly created event
// starts from an empty field so the first keystroke replaces the stock title.
func (m *appModel) startTitleInput(id string, fresh bool) {
	ev, ok := m.machine.Event(id)
	if !ok {
		return
	}
	if fresh {
		m.input.SetValue("")
	} else {
		m.input.SetValue(ev.Title)
		m.input.CursorEnd()
	}
	m.input.Focus()
}

func (m *appModel) fail(op string, err error) {
	m.statusErr = err.Error()
	log.Error(op, err, "calendar", m.machine.CalendarID())
}
