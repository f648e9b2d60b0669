package gesture

import (
	"errors"
	"fmt"
	"testing"

	"dayplan/internal/grid"
	"dayplan/internal/model"
)

// fakeCollab records commit/remove batches.
type fakeCollab struct {
	events    []model.Event
	commits   [][]model.Event
	removes   [][]string
	commitErr error
}

func (f *fakeCollab) LoadEvents(calendarID string) ([]model.Event, error) {
	out := make([]model.Event, len(f.events))
	copy(out, f.events)
	return out, nil
}

func (f *fakeCollab) Commit(calendarID string, events []model.Event) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, events)
	return nil
}

func (f *fakeCollab) Remove(calendarID string, ids []string) error {
	f.removes = append(f.removes, ids)
	return nil
}

func testMetrics() grid.Metrics {
	return grid.Metrics{SlotHeightPx: 30, MinutesPerSlot: 60}
}

func newTestMachine(t *testing.T, events ...model.Event) (*Machine, *fakeCollab) {
	t.Helper()
	fc := &fakeCollab{events: events}
	m := NewMachine(testMetrics(), fc)
	n := 0
	m.SetIDFunc(func() string { n++; return fmt.Sprintf("evt-new%d", n) })
	if err := m.SetCalendar("cal-a"); err != nil {
		t.Fatalf("SetCalendar: %v", err)
	}
	return m, fc
}

func ev(id string, hour, minute, duration int) model.Event {
	return model.Event{ID: id, CalendarID: "cal-a", Title: id, StartHour: hour, StartMinute: minute, Duration: duration}
}

func TestCreateGesture_PressDragRelease(t *testing.T) {
	m, fc := newTestMachine(t)

	// Slot height 30px, 60 min/slot: y=120 is 09:00, y=180 is 11:00.
	m.PointerDown(10, 120, Hit{}, false)
	if m.SessionKind() != SessionPendingCreate {
		t.Fatalf("expected PendingCreate, got %v", m.SessionKind())
	}
	m.PointerMove(10, 180)
	if m.SessionKind() != SessionPreviewingCreate {
		t.Fatalf("expected PreviewingCreate, got %v", m.SessionKind())
	}

	res, err := m.PointerUp(10, 180, false)
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if res.CreatedID == "" || res.EditingID != res.CreatedID {
		t.Fatalf("expected created event to enter title editing, got %+v", res)
	}
	created, ok := m.Event(res.CreatedID)
	if !ok {
		t.Fatalf("created event missing from working set")
	}
	if created.StartHour != 9 || created.StartMinute != 0 || created.Duration != 120 {
		t.Fatalf("expected 09:00 for 120m, got %02d:%02d for %dm", created.StartHour, created.StartMinute, created.Duration)
	}
	if created.Title != model.DefaultTitle {
		t.Fatalf("expected default title, got %q", created.Title)
	}
	if len(fc.commits) != 1 || len(fc.commits[0]) != 1 {
		t.Fatalf("expected exactly one single-event commit, got %v", fc.commits)
	}
	if m.SessionKind() != SessionEditing || m.EditingID() != res.CreatedID {
		t.Fatalf("machine should be editing the new event title")
	}
}

func TestCreateGesture_DragUpSwapsStartAndEnd(t *testing.T) {
	m, _ := newTestMachine(t)

	m.PointerDown(10, 180, Hit{}, false) // 11:00
	m.PointerMove(10, 120)               // up to 09:00
	res, err := m.PointerUp(10, 120, false)
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	created, _ := m.Event(res.CreatedID)
	if created.StartHour != 9 || created.Duration != 120 {
		t.Fatalf("drag-up should start at 09:00 for 120m, got %02d:%02d %dm", created.StartHour, created.StartMinute, created.Duration)
	}
}

func TestCreateGesture_SubThresholdIsAPlainClick(t *testing.T) {
	a := ev("a", 9, 0, 60)
	m, fc := newTestMachine(t, a)
	m.sel.Click("a", false)

	m.PointerDown(10, 400, Hit{}, false)
	m.PointerMove(12, 402) // < 5px
	if m.SessionKind() != SessionPendingCreate {
		t.Fatalf("sub-threshold movement must not open a preview")
	}
	if _, err := m.PointerUp(12, 402, false); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if len(m.Events()) != 1 {
		t.Fatalf("no event should have been created")
	}
	if len(fc.commits) != 0 {
		t.Fatalf("nothing should have been committed")
	}
	if m.SelectionLen() != 0 {
		t.Fatalf("background click must clear the selection")
	}
}

func TestDragGesture_MovesAndCommitsOnce(t *testing.T) {
	a := ev("a", 9, 0, 60)
	m, fc := newTestMachine(t, a)

	// Grab the middle of the event (09:30 = y 135) and drag down one hour.
	m.PointerDown(10, 135, Hit{EventID: "a"}, false)
	m.PointerMove(10, 150)
	m.PointerMove(10, 165)
	if got, _ := m.Event("a"); got.StartHour != 10 {
		t.Fatalf("live drag should preview 10:00, got %02d:%02d", got.StartHour, got.StartMinute)
	}
	if len(fc.commits) != 0 {
		t.Fatalf("no commit during live drag")
	}

	if _, err := m.PointerUp(10, 165, false); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if len(fc.commits) != 1 || len(fc.commits[0]) != 1 {
		t.Fatalf("expected one single-event commit, got %v", fc.commits)
	}
	if fc.commits[0][0].StartHour != 10 || fc.commits[0][0].StartMinute != 0 {
		t.Fatalf("committed start should be 10:00, got %02d:%02d", fc.commits[0][0].StartHour, fc.commits[0][0].StartMinute)
	}
}

func TestDragGesture_NoCommitWhenStartUnchanged(t *testing.T) {
	a := ev("a", 9, 0, 60)
	m, fc := newTestMachine(t, a)

	// Mostly-horizontal wiggle: past the drag threshold, but the
	// quantized start stays 09:00.
	m.PointerDown(10, 122, Hit{EventID: "a"}, false)
	m.PointerMove(16, 122)
	if _, err := m.PointerUp(16, 122, false); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if len(fc.commits) != 0 {
		t.Fatalf("unchanged start must not commit, got %v", fc.commits)
	}
}

func TestDragGesture_MultiSelectMovesRigidly(t *testing.T) {
	a := ev("a", 9, 0, 60)
	b := ev("b", 9, 30, 60)
	m, fc := newTestMachine(t, a, b)
	m.sel.Click("a", false)
	m.sel.Click("b", true)

	// Drag a by +60 minutes (one 30px slot).
	m.PointerDown(10, 120, Hit{EventID: "a"}, false)
	m.PointerMove(10, 150)

	gotA, _ := m.Event("a")
	gotB, _ := m.Event("b")
	if gotA.StartMinutes() != 10*60 {
		t.Fatalf("a should preview 10:00, got %d", gotA.StartMinutes())
	}
	if gotB.StartMinutes() != 10*60+30 {
		t.Fatalf("b must move by the same +60 delta from its own original start, got %d", gotB.StartMinutes())
	}

	if _, err := m.PointerUp(10, 150, false); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if len(fc.commits) != 1 {
		t.Fatalf("multi-select move must be one batch commit, got %d", len(fc.commits))
	}
	if len(fc.commits[0]) != 2 {
		t.Fatalf("batch should carry both events, got %d", len(fc.commits[0]))
	}
}

func TestDragGesture_DeltaAppliesToOriginalsNotLiveValues(t *testing.T) {
	a := ev("a", 9, 0, 60)
	b := ev("b", 12, 15, 30)
	m, _ := newTestMachine(t, a, b)
	m.sel.Click("a", false)
	m.sel.Click("b", true)

	m.PointerDown(10, 120, Hit{EventID: "a"}, false)
	// Wander: down, up past the origin, then settle at +60.
	m.PointerMove(10, 200)
	m.PointerMove(10, 90)
	m.PointerMove(10, 150)

	gotB, _ := m.Event("b")
	if gotB.StartMinutes() != 13*60+15 {
		t.Fatalf("b must track a's delta from original, got %d", gotB.StartMinutes())
	}
}

func TestDragGesture_WrapNormalizesIntoDay(t *testing.T) {
	a := ev("a", 0, 30, 60)
	b := ev("b", 1, 0, 60)
	m, _ := newTestMachine(t, a, b)
	m.sel.Click("a", false)
	m.sel.Click("b", true)

	// 00:30 sits in the wrap segment; drag it up far enough that a's
	// group partner would go negative without normalization.
	m.PointerDown(10, m.metrics.TimeToTop(0, 30)+5, Hit{EventID: "a"}, false)
	m.PointerMove(10, m.metrics.TimeToTop(23, 30)+5)

	gotA, _ := m.Event("a")
	gotB, _ := m.Event("b")
	if gotA.StartMinutes() != 23*60+30 {
		t.Fatalf("a should preview 23:30, got %d", gotA.StartMinutes())
	}
	if gotB.StartMinutes() != 0 {
		t.Fatalf("b should wrap to 00:00, got %d", gotB.StartMinutes())
	}
}

func TestClick_SelectionToggleRules(t *testing.T) {
	a := ev("a", 9, 0, 60)
	b := ev("b", 11, 0, 60)
	m, _ := newTestMachine(t, a, b)

	click := func(id string, y float64, shift bool) {
		m.PointerDown(10, y, Hit{EventID: id}, shift)
		if _, err := m.PointerUp(10, y, shift); err != nil {
			t.Fatalf("PointerUp: %v", err)
		}
	}

	click("a", 130, false)
	if !m.IsSelected("a") || m.SelectionLen() != 1 {
		t.Fatalf("click should select a")
	}
	click("b", 190, true)
	if !m.IsSelected("a") || !m.IsSelected("b") {
		t.Fatalf("shift-click should add b without dropping a")
	}
	click("b", 190, true)
	if m.IsSelected("b") || !m.IsSelected("a") {
		t.Fatalf("shift-click should toggle b off only")
	}
	click("a", 130, false)
	if m.SelectionLen() != 0 {
		t.Fatalf("clicking the sole selection deselects it")
	}
	click("a", 130, false)
	click("b", 190, false)
	if m.IsSelected("a") || !m.IsSelected("b") {
		t.Fatalf("plain click replaces the selection")
	}
}

func TestResize_ClampsToMinimumDuration(t *testing.T) {
	a := ev("a", 9, 0, 30)
	m, fc := newTestMachine(t, a)

	// Handle sits at the event bottom (09:30 = y 135); drag up 2 slots.
	m.PointerDown(10, 135, Hit{EventID: "a", ResizeHandle: true}, false)
	m.PointerMove(10, 75)
	got, _ := m.Event("a")
	if got.Duration != 15 {
		t.Fatalf("duration must clamp to 15, got %d", got.Duration)
	}
	if _, err := m.PointerUp(10, 75, false); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if len(fc.commits) != 1 || fc.commits[0][0].Duration != 15 {
		t.Fatalf("expected committed duration 15, got %v", fc.commits)
	}
}

func TestResize_GrowsByQuantizedDelta(t *testing.T) {
	a := ev("a", 9, 0, 30)
	m, fc := newTestMachine(t, a)

	m.PointerDown(10, 135, Hit{EventID: "a", ResizeHandle: true}, false)
	m.PointerMove(10, 135+45) // +90 minutes
	if _, err := m.PointerUp(10, 135+45, false); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	got, _ := m.Event("a")
	if got.Duration != 120 {
		t.Fatalf("expected duration 120, got %d", got.Duration)
	}
	if len(fc.commits) != 1 {
		t.Fatalf("expected one commit, got %d", len(fc.commits))
	}
}

func TestResize_NoCommitWhenUnchanged(t *testing.T) {
	a := ev("a", 9, 0, 30)
	m, fc := newTestMachine(t, a)

	m.PointerDown(10, 135, Hit{EventID: "a", ResizeHandle: true}, false)
	m.PointerMove(10, 137) // ~4 minutes, quantizes back to 30
	if _, err := m.PointerUp(10, 137, false); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if len(fc.commits) != 0 {
		t.Fatalf("unchanged duration must not commit")
	}
}

func TestTitleEdit_TrimEmptyAndEscape(t *testing.T) {
	a := ev("a", 9, 0, 60)
	a.Title = "Standup"
	m, fc := newTestMachine(t, a)

	if !m.BeginTitleEdit("a") {
		t.Fatalf("BeginTitleEdit failed")
	}
	if err := m.FinishTitleEdit("   "); err != nil {
		t.Fatalf("FinishTitleEdit: %v", err)
	}
	got, _ := m.Event("a")
	if got.Title != model.DefaultTitle {
		t.Fatalf("whitespace-only edit must revert to default title, got %q", got.Title)
	}
	if len(fc.commits) != 1 {
		t.Fatalf("title change should commit once, got %d", len(fc.commits))
	}

	m.BeginTitleEdit("a")
	m.CancelTitleEdit()
	got, _ = m.Event("a")
	if got.Title != model.DefaultTitle {
		t.Fatalf("escape must restore the original title")
	}
	if len(fc.commits) != 1 {
		t.Fatalf("escape must not commit")
	}

	m.BeginTitleEdit("a")
	if err := m.FinishTitleEdit(model.DefaultTitle); err != nil {
		t.Fatalf("FinishTitleEdit: %v", err)
	}
	if len(fc.commits) != 1 {
		t.Fatalf("unchanged title must not commit")
	}
}

func TestTitleClick_EntersEditing(t *testing.T) {
	a := ev("a", 9, 0, 60)
	m, _ := newTestMachine(t, a)

	m.PointerDown(10, 121, Hit{EventID: "a", Title: true}, false)
	res, err := m.PointerUp(10, 121, false)
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if res.EditingID != "a" || m.EditingID() != "a" {
		t.Fatalf("title click should enter editing, got %+v", res)
	}
}

func TestTitleClick_WithShiftTogglesSelectionInstead(t *testing.T) {
	a := ev("a", 9, 0, 60)
	m, _ := newTestMachine(t, a)

	m.PointerDown(10, 121, Hit{EventID: "a", Title: true}, true)
	res, err := m.PointerUp(10, 121, true)
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if res.EditingID != "" {
		t.Fatalf("shift-click on a title must not open the editor")
	}
	if !m.IsSelected("a") {
		t.Fatalf("shift-click should toggle selection")
	}
}

func TestDeleteSelected_BatchRemovesAndClears(t *testing.T) {
	a := ev("a", 9, 0, 60)
	b := ev("b", 11, 0, 60)
	c := ev("c", 13, 0, 60)
	d := ev("d", 15, 0, 60)
	m, fc := newTestMachine(t, a, b, c, d)
	m.sel.Click("a", false)
	m.sel.Click("b", true)
	m.sel.Click("c", true)

	if err := m.DeleteSelected(); err != nil {
		t.Fatalf("DeleteSelected: %v", err)
	}
	if len(m.Events()) != 1 {
		t.Fatalf("expected exactly 3 events removed, %d left", len(m.Events()))
	}
	if _, ok := m.Event("d"); !ok {
		t.Fatalf("unselected event must survive")
	}
	if m.SelectionLen() != 0 {
		t.Fatalf("selection must be emptied")
	}
	if len(fc.removes) != 1 || len(fc.removes[0]) != 3 {
		t.Fatalf("expected one batch remove of 3, got %v", fc.removes)
	}
}

func TestSetColor_AppliesToDefaultAndSelection(t *testing.T) {
	a := ev("a", 9, 0, 60)
	b := ev("b", 11, 0, 60)
	m, fc := newTestMachine(t, a, b)

	if err := m.SetColor(3); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	if m.NextColor() != 3 {
		t.Fatalf("next-event default color should be 3")
	}
	if len(fc.commits) != 0 {
		t.Fatalf("no selection, no commit")
	}

	m.sel.Click("a", false)
	m.sel.Click("b", true)
	if err := m.SetColor(5); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	gotA, _ := m.Event("a")
	gotB, _ := m.Event("b")
	if gotA.Color != 5 || gotB.Color != 5 {
		t.Fatalf("selected events must be recolored")
	}
	if len(fc.commits) != 1 || len(fc.commits[0]) != 2 {
		t.Fatalf("recolor must be one batch commit, got %v", fc.commits)
	}
}

func TestCommitFailure_KeepsOptimisticLocalState(t *testing.T) {
	a := ev("a", 9, 0, 60)
	m, fc := newTestMachine(t, a)
	fc.commitErr = errors.New("store offline")

	m.PointerDown(10, 120, Hit{EventID: "a"}, false)
	m.PointerMove(10, 150)
	if _, err := m.PointerUp(10, 150, false); err == nil {
		t.Fatalf("expected commit error to surface")
	}
	got, _ := m.Event("a")
	if got.StartHour != 10 {
		t.Fatalf("local state must not be rolled back, got %02d:%02d", got.StartHour, got.StartMinute)
	}
	if m.SessionKind() != SessionNone {
		t.Fatalf("session must still settle to idle")
	}
}

func TestLayout_DraggedEventFloats(t *testing.T) {
	a := ev("a", 9, 0, 60)
	b := ev("b", 9, 30, 60)
	m, _ := newTestMachine(t, a, b)

	m.PointerDown(10, 125, Hit{EventID: "a"}, false)
	m.PointerMove(10, 140)

	pl := m.Layout()
	if !pl["a"].Floating {
		t.Fatalf("dragged event must float")
	}
	if pl["b"].Columns != 1 {
		t.Fatalf("stationary event should lay out as if dragged one did not exist")
	}
}

func TestLayout_DropIntoForeignRegionTakesRightmostColumn(t *testing.T) {
	a := ev("a", 9, 0, 60)
	b := ev("b", 9, 30, 60)
	c := ev("c", 14, 0, 60)
	m, _ := newTestMachine(t, a, b, c)

	// Drag c from 14:00 into the a/b region (to 09:15).
	m.PointerDown(10, m.metrics.TimeToTop(14, 0)+2, Hit{EventID: "c"}, false)
	m.PointerMove(10, m.metrics.TimeToTop(9, 15)+2)
	if _, err := m.PointerUp(10, m.metrics.TimeToTop(9, 15)+2, false); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}

	pl := m.Layout()
	if pl["a"].Column != 0 || pl["b"].Column != 1 {
		t.Fatalf("stationary events must keep columns {a:0,b:1}, got {a:%d,b:%d}", pl["a"].Column, pl["b"].Column)
	}
	if pl["c"].Column != 2 {
		t.Fatalf("dropped event should take the rightmost column, got %d", pl["c"].Column)
	}
}

func TestDeleteWhileDraggingSettlesWithoutCommit(t *testing.T) {
	a := ev("a", 9, 0, 60)
	m, fc := newTestMachine(t, a)

	// Select with a click, then start a fresh drag on the same event.
	m.PointerDown(10, 125, Hit{EventID: "a"}, false)
	if _, err := m.PointerUp(10, 125, false); err != nil {
		t.Fatalf("click PointerUp: %v", err)
	}
	m.PointerDown(10, 125, Hit{EventID: "a"}, false)
	m.PointerMove(10, 155)

	// The working set changes under the active drag.
	if err := m.DeleteSelected(); err != nil {
		t.Fatalf("DeleteSelected: %v", err)
	}

	commits := len(fc.commits)
	if _, err := m.PointerUp(10, 155, false); err != nil {
		t.Fatalf("PointerUp after delete: %v", err)
	}
	if len(fc.commits) != commits {
		t.Fatalf("settling a drag on a deleted event must not commit")
	}
	if m.SessionKind() != SessionNone {
		t.Fatalf("expected session reset, got %v", m.SessionKind())
	}
	if len(m.Events()) != 0 {
		t.Fatalf("expected empty working set, got %d events", len(m.Events()))
	}
}

func TestDeleteWhileDraggingSubThresholdClickIsNoop(t *testing.T) {
	a := ev("a", 9, 0, 60)
	m, fc := newTestMachine(t, a)

	m.PointerDown(10, 125, Hit{EventID: "a"}, false)
	if _, err := m.PointerUp(10, 125, false); err != nil {
		t.Fatalf("click PointerUp: %v", err)
	}
	m.PointerDown(10, 125, Hit{EventID: "a", Title: true}, false)
	if err := m.DeleteSelected(); err != nil {
		t.Fatalf("DeleteSelected: %v", err)
	}

	res, err := m.PointerUp(10, 125, false)
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if res.EditingID != "" {
		t.Fatalf("a deleted event must not enter title editing")
	}
	if len(fc.commits) != 0 {
		t.Fatalf("expected no commits, got %d", len(fc.commits))
	}
}
