// Package gesture converts pointer press/drag/release sequences into
// quantized event mutations: create, move (including rigid multi-select
// moves), resize, retitle, recolor and delete.
//
// The machine owns a working copy of one calendar's events and notifies
// the persistence collaborator only when a gesture completes, so the
// write rate is bounded regardless of pointer-move frequency. All methods
// are called from a single goroutine (the TUI update loop).
package gesture

import (
	"crypto/rand"
	"encoding/base32"
	"math"
	"strings"

	"dayplan/internal/grid"
	"dayplan/internal/layout"
	"dayplan/internal/model"
)

// Collaborator is the engine's boundary with the persistence layer. The
// engine never blocks on the result beyond the call itself; a failed
// commit leaves the optimistic local state in place.
type Collaborator interface {
	LoadEvents(calendarID string) ([]model.Event, error)
	Commit(calendarID string, events []model.Event) error
	Remove(calendarID string, eventIDs []string) error
}

// SessionKind enumerates the interaction session states.
type SessionKind int

const (
	SessionNone SessionKind = iota
	SessionPendingCreate
	SessionPreviewingCreate
	SessionDragging
	SessionResizing
	SessionEditing
)

// dragThresholdPx separates clicks from drags: below it, pointer-up is a
// plain click and no create/move is committed.
const dragThresholdPx = 5

// Hit describes what lies under the pointer at press time. The zero
// value means empty grid space.
type Hit struct {
	EventID      string
	ResizeHandle bool
	Title        bool
	// Chrome marks presses on menus and other non-grid surfaces; the
	// machine ignores them (the caller closes its chrome first).
	Chrome bool
}

// Result reports what a pointer-up produced, so the caller can react
// (e.g. focus a title editor for a just-created event).
type Result struct {
	CreatedID string
	EditingID string
}

type session struct {
	kind             SessionKind
	anchorX, anchorY float64
	targetID         string
	grabOffsetY      float64
	onTitle          bool
	moved            bool
	// originals snapshots every event this session may mutate, keyed by
	// id. Deltas are always computed against these, never against live
	// values, which keeps multi-select moves rigid.
	originals map[string]model.Event
	// dragCols is the original column snapshot captured at drag start;
	// it biases layout during the drag and is discarded on release.
	dragCols         map[string]int
	originalDuration int
	originalTitle    string
}

// Machine is the per-calendar gesture engine.
type Machine struct {
	metrics    grid.Metrics
	collab     Collaborator
	newID      func() string
	calendarID string
	events     []model.Event
	sel        Selection
	nextColor  int
	// bias carries the last committed column assignment forward so the
	// layout stays visually stable between gestures.
	bias map[string]int
	sess session
}

// NewMachine builds a machine over the given grid metrics and
// collaborator. Call SetCalendar before feeding pointer events.
func NewMachine(m grid.Metrics, c Collaborator) *Machine {
	return &Machine{metrics: m, collab: c, newID: newEventID}
}

// SetIDFunc overrides event id generation (tests).
func (m *Machine) SetIDFunc(f func() string) { m.newID = f }

// SetCalendar switches the displayed calendar: the working set is
// reloaded, the selection cleared, and any session abandoned.
func (m *Machine) SetCalendar(id string) error {
	evs, err := m.collab.LoadEvents(id)
	if err != nil {
		return err
	}
	m.calendarID = id
	m.events = evs
	m.sel.Clear()
	m.sess = session{}
	m.bias = nil
	m.refreshBias(layout.Options{})
	return nil
}

func (m *Machine) CalendarID() string { return m.calendarID }

// Events returns a copy of the working set, live gesture state included.
func (m *Machine) Events() []model.Event {
	out := make([]model.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Event looks up one event in the working set.
func (m *Machine) Event(id string) (model.Event, bool) {
	for _, e := range m.events {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

func (m *Machine) find(id string) *model.Event {
	for i := range m.events {
		if m.events[i].ID == id {
			return &m.events[i]
		}
	}
	return nil
}

func (m *Machine) SessionKind() SessionKind { return m.sess.kind }

// DraggedID returns the actively dragged event id, or "".
func (m *Machine) DraggedID() string {
	if m.sess.kind == SessionDragging {
		return m.sess.targetID
	}
	return ""
}

// PreviewID returns the id of the in-progress create preview, or "".
func (m *Machine) PreviewID() string {
	if m.sess.kind == SessionPreviewingCreate {
		return m.sess.targetID
	}
	return ""
}

// EditingID returns the event whose title is being edited, or "".
func (m *Machine) EditingID() string {
	if m.sess.kind == SessionEditing {
		return m.sess.targetID
	}
	return ""
}

func (m *Machine) IsSelected(id string) bool { return m.sel.Has(id) }
func (m *Machine) SelectedIDs() []string     { return m.sel.IDs() }
func (m *Machine) SelectionLen() int         { return m.sel.Len() }

// NextColor is the palette index applied to the next created event.
func (m *Machine) NextColor() int { return m.nextColor }

// Layout computes the current on-screen column placement. During a drag
// the snapshot bias applies and the dragged event floats; otherwise the
// carried-forward assignment keeps events in place.
func (m *Machine) Layout() map[string]layout.Placement {
	if m.sess.kind == SessionDragging {
		return layout.Compute(m.events, layout.Options{
			Bias:      m.sess.dragCols,
			DraggedID: m.sess.targetID,
		})
	}
	return layout.Compute(m.events, layout.Options{Bias: m.bias})
}

// refreshBias recomputes the layout with the given options and records
// the resulting columns as the bias for subsequent computations.
func (m *Machine) refreshBias(opts layout.Options) {
	pl := layout.Compute(m.events, opts)
	cols := make(map[string]int, len(pl))
	for id, p := range pl {
		cols[id] = p.Column
	}
	m.bias = cols
}

// PointerDown starts a session. Presses during a title edit are ignored;
// the caller finishes or cancels the edit first.
func (m *Machine) PointerDown(x, y float64, hit Hit, shift bool) {
	if m.sess.kind == SessionEditing || hit.Chrome {
		return
	}
	m.sess = session{anchorX: x, anchorY: y}

	if hit.EventID == "" {
		m.sess.kind = SessionPendingCreate
		return
	}
	ev := m.find(hit.EventID)
	if ev == nil {
		m.sess = session{}
		return
	}

	if hit.ResizeHandle {
		m.sess.kind = SessionResizing
		m.sess.targetID = ev.ID
		m.sess.originals = map[string]model.Event{ev.ID: *ev}
		m.sess.originalDuration = ev.Duration
		return
	}

	m.sess.kind = SessionDragging
	m.sess.targetID = ev.ID
	m.sess.onTitle = hit.Title
	m.sess.grabOffsetY = y - m.metrics.TimeToTop(ev.StartHour, ev.StartMinute)

	m.sess.originals = map[string]model.Event{ev.ID: *ev}
	if m.sel.Len() > 1 && m.sel.Has(ev.ID) {
		for _, id := range m.sel.IDs() {
			if e := m.find(id); e != nil {
				m.sess.originals[id] = *e
			}
		}
	}

	pl := layout.Compute(m.events, layout.Options{Bias: m.bias})
	m.sess.dragCols = make(map[string]int, len(pl))
	for id, p := range pl {
		m.sess.dragCols[id] = p.Column
	}
}

// PointerMove feeds continuous pointer motion into the active session.
// It mutates only session-visible state; nothing is committed.
func (m *Machine) PointerMove(x, y float64) {
	switch m.sess.kind {
	case SessionPendingCreate:
		if m.travel(x, y) < dragThresholdPx {
			return
		}
		m.sess.kind = SessionPreviewingCreate
		m.sess.targetID = m.newID()
		m.events = append(m.events, model.Event{
			ID:         m.sess.targetID,
			CalendarID: m.calendarID,
			Title:      model.DefaultTitle,
			Color:      m.nextColor,
		})
		m.updateCreatePreview(y)

	case SessionPreviewingCreate:
		m.updateCreatePreview(y)

	case SessionDragging:
		if m.travel(x, y) >= dragThresholdPx {
			m.sess.moved = true
		}
		orig := m.sess.originals[m.sess.targetID]
		h, mn := m.metrics.PixelToTime(y - m.sess.grabOffsetY)
		delta := h*60 + mn - orig.StartMinutes()
		// Apply the same delta to every snapshot member relative to its
		// own original start, so intermediate rounding cannot skew the
		// group.
		for id, o := range m.sess.originals {
			if e := m.find(id); e != nil {
				e.SetStartMinutes(grid.NormalizeStart(o.StartMinutes() + delta))
			}
		}

	case SessionResizing:
		e := m.find(m.sess.targetID)
		if e == nil {
			return
		}
		deltaMin := m.metrics.PixelsToMinutes(y - m.sess.anchorY)
		e.Duration = grid.ClampDuration(m.sess.originalDuration + deltaMin)
	}
}

func (m *Machine) travel(x, y float64) float64 {
	return math.Hypot(x-m.sess.anchorX, y-m.sess.anchorY)
}

// updateCreatePreview quantizes anchor and pointer positions and orders
// them so dragging upward swaps start and end.
func (m *Machine) updateCreatePreview(y float64) {
	e := m.find(m.sess.targetID)
	if e == nil {
		return
	}
	topY, botY := m.sess.anchorY, y
	if botY < topY {
		topY, botY = botY, topY
	}
	sh, sm := m.metrics.PixelToTime(topY)
	eh, em := m.metrics.PixelToTime(botY)
	e.StartHour, e.StartMinute = sh, sm
	e.Duration = grid.DurationBetween(sh*60+sm, eh*60+em)
}

// PointerUp finalizes whatever state the gesture reached. There is no
// cancel gesture. Commit errors are returned after local state has been
// updated optimistically.
func (m *Machine) PointerUp(x, y float64, shift bool) (Result, error) {
	defer func() {
		if m.sess.kind != SessionEditing {
			m.sess = session{}
		}
	}()

	switch m.sess.kind {
	case SessionPendingCreate:
		// Sub-threshold press on empty space: a plain background click.
		m.sel.Clear()
		return Result{}, nil

	case SessionPreviewingCreate:
		m.updateCreatePreview(y)
		preview := m.find(m.sess.targetID)
		if preview == nil {
			return Result{}, nil
		}
		created := *preview
		m.refreshBias(layout.Options{Bias: m.bias})
		err := m.collab.Commit(m.calendarID, []model.Event{created})
		// The new event immediately enters title editing.
		id := created.ID
		m.sess = session{kind: SessionEditing, targetID: id, originalTitle: created.Title}
		return Result{CreatedID: id, EditingID: id}, err

	case SessionDragging:
		target := m.sess.targetID
		te := m.find(target)
		if te == nil {
			// The target left the working set mid-gesture (deleted or
			// the calendar switched). Settle as a no-op.
			return Result{}, nil
		}
		if !m.sess.moved {
			if m.sess.onTitle && !shift {
				m.sess = session{kind: SessionEditing, targetID: target, originalTitle: te.Title}
				return Result{EditingID: target}, nil
			}
			m.sel.Click(target, shift)
			return Result{}, nil
		}

		var changed []model.Event
		for id, orig := range m.sess.originals {
			if e := m.find(id); e != nil && e.StartMinutes() != orig.StartMinutes() {
				changed = append(changed, *e)
			}
		}

		// Drop stability: an event dropped into a region it was not part
		// of before the drag takes the rightmost column so the events
		// that did not move keep theirs.
		dropped := *te
		preferRight := map[string]bool{}
		if !m.belongedToRegionBeforeDrag(dropped) {
			preferRight[target] = true
		}
		m.refreshBias(layout.Options{
			Bias:        m.sess.dragCols,
			PreferRight: preferRight,
		})

		if len(changed) == 0 {
			return Result{}, nil
		}
		return Result{}, m.collab.Commit(m.calendarID, changed)

	case SessionResizing:
		e := m.find(m.sess.targetID)
		if e == nil || e.Duration == m.sess.originalDuration {
			return Result{}, nil
		}
		m.refreshBias(layout.Options{Bias: m.bias})
		return Result{}, m.collab.Commit(m.calendarID, []model.Event{*e})
	}
	return Result{}, nil
}

// belongedToRegionBeforeDrag reports whether the dropped event, at its
// pre-drag position, already overlapped some member of the region it
// landed in. Co-dragged events moved rigidly, so their relative overlaps
// are unchanged and current positions suffice for them.
func (m *Machine) belongedToRegionBeforeDrag(dropped model.Event) bool {
	orig := m.sess.originals[dropped.ID]
	region := layout.FindOverlapRegion(dropped, m.events)
	if len(region) == 1 {
		return true // alone: nothing to reshuffle
	}
	for _, member := range region {
		if member.ID == dropped.ID {
			continue
		}
		if _, coDragged := m.sess.originals[member.ID]; coDragged {
			if layout.Overlaps(dropped, member) {
				return true
			}
			continue
		}
		if layout.Overlaps(orig, member) {
			return true
		}
	}
	return false
}

// BeginTitleEdit enters the Editing state for an event's title.
func (m *Machine) BeginTitleEdit(id string) bool {
	e := m.find(id)
	if e == nil {
		return false
	}
	m.sess = session{kind: SessionEditing, targetID: id, originalTitle: e.Title}
	return true
}

// FinishTitleEdit applies the edited text: trimmed, with empty content
// reverting to the default title. Only a real change is committed.
func (m *Machine) FinishTitleEdit(text string) error {
	if m.sess.kind != SessionEditing {
		return nil
	}
	e := m.find(m.sess.targetID)
	orig := m.sess.originalTitle
	m.sess = session{}
	if e == nil {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = model.DefaultTitle
	}
	e.Title = text
	if text == orig {
		return nil
	}
	return m.collab.Commit(m.calendarID, []model.Event{*e})
}

// CancelTitleEdit discards the edit and restores the original title
// without committing.
func (m *Machine) CancelTitleEdit() {
	if m.sess.kind != SessionEditing {
		return
	}
	if e := m.find(m.sess.targetID); e != nil {
		e.Title = m.sess.originalTitle
	}
	m.sess = session{}
}

// ClearSelection is the background-click / calendar-change hook.
func (m *Machine) ClearSelection() { m.sel.Clear() }

// DeleteSelected removes every selected event in one batch and clears
// the selection.
func (m *Machine) DeleteSelected() error {
	ids := m.sel.IDs()
	if len(ids) == 0 {
		return nil
	}
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.events[:0]
	for _, e := range m.events {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	m.events = kept
	m.sel.Clear()
	m.refreshBias(layout.Options{Bias: m.bias})
	return m.collab.Remove(m.calendarID, ids)
}

// SetColor changes the next-event default and, when a selection exists,
// recolors every selected event as one batch commit.
func (m *Machine) SetColor(idx int) error {
	if idx < 0 || idx >= model.PaletteSize {
		return nil
	}
	m.nextColor = idx
	ids := m.sel.IDs()
	if len(ids) == 0 {
		return nil
	}
	var changed []model.Event
	for _, id := range ids {
		if e := m.find(id); e != nil && e.Color != idx {
			e.Color = idx
			changed = append(changed, *e)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	return m.collab.Commit(m.calendarID, changed)
}

// newEventID returns evt-<suffix>, suffix being 8 chars of lowercase
// base32 (~40 bits).
func newEventID() string {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is unrecoverable for our purposes.
		panic(err)
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "evt-" + strings.ToLower(enc.EncodeToString(b[:]))
}
