package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"dayplan/internal/model"
)

func runCmd(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runCmd(t, dir, args...)
	if err != nil {
		t.Fatalf("dayplan %v: %v", args, err)
	}
	return out
}

func TestInitCreatesCalendar(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "init", "--name", "Work")

	out := mustRun(t, dir, "calendars", "list")
	var cals []model.Calendar
	if err := json.Unmarshal([]byte(out), &cals); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if len(cals) != 1 || cals[0].Name != "Work" {
		t.Fatalf("expected one calendar Work, got %+v", cals)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	mustRun(t, dir, "init")

	out := mustRun(t, dir, "calendars", "list")
	var cals []model.Calendar
	if err := json.Unmarshal([]byte(out), &cals); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cals) != 1 {
		t.Fatalf("expected init to be idempotent, got %d calendars", len(cals))
	}
}

func TestEventsAddAndList(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "--name", "Work")

	out := mustRun(t, dir, "events", "add", "--title", "Standup", "--start", "09:05", "--duration", "25")
	var ev model.Event
	if err := json.Unmarshal([]byte(out), &ev); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	// 09:05 snaps to 09:00, 25 minutes snap to 30.
	if ev.StartHour != 9 || ev.StartMinute != 0 || ev.Duration != 30 {
		t.Fatalf("unexpected quantization: %+v", ev)
	}
	if !strings.HasPrefix(ev.ID, "evt-") {
		t.Fatalf("unexpected id %q", ev.ID)
	}

	list := mustRun(t, dir, "events", "list", "--calendar", "Work")
	var evs []model.Event
	if err := json.Unmarshal([]byte(list), &evs); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(evs) != 1 || evs[0].Title != "Standup" {
		t.Fatalf("expected listed Standup, got %+v", evs)
	}
}

func TestEventsListOrdersByStart(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	mustRun(t, dir, "events", "add", "--title", "Late", "--start", "15:00")
	mustRun(t, dir, "events", "add", "--title", "Early", "--start", "08:00")

	list := mustRun(t, dir, "events", "list")
	var evs []model.Event
	if err := json.Unmarshal([]byte(list), &evs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(evs) != 2 || evs[0].Title != "Early" || evs[1].Title != "Late" {
		t.Fatalf("expected start-time order, got %+v", evs)
	}
}

func TestEventsRemove(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	out := mustRun(t, dir, "events", "add", "--title", "Gone", "--start", "10:00")
	var ev model.Event
	if err := json.Unmarshal([]byte(out), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	mustRun(t, dir, "events", "remove", ev.ID)

	list := mustRun(t, dir, "events", "list")
	var evs []model.Event
	if err := json.Unmarshal([]byte(list), &evs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("expected empty list, got %+v", evs)
	}
}

func TestCalendarsRenameByName(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "--name", "Old")
	mustRun(t, dir, "calendars", "rename", "Old", "--name", "New")

	out := mustRun(t, dir, "calendars", "list")
	var cals []model.Calendar
	if err := json.Unmarshal([]byte(out), &cals); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cals) != 1 || cals[0].Name != "New" {
		t.Fatalf("expected rename, got %+v", cals)
	}
}

func TestCalendarNotFound(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")

	_, err := runCmd(t, dir, "events", "list", "--calendar", "nope")
	if err == nil {
		t.Fatalf("expected not-found error")
	}
	var nf notFoundError
	if !strings.Contains(err.Error(), "calendar not found") {
		t.Fatalf("unexpected error: %v (%T)", err, nf)
	}
}

func TestExportWritesICS(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init", "--name", "Work")
	mustRun(t, dir, "events", "add", "--title", "Standup", "--start", "09:15", "--duration", "30")

	out := mustRun(t, dir, "export", "--calendar", "Work", "--day", "2026-08-31")
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "SUMMARY:Standup") {
		t.Fatalf("unexpected ics output:\n%s", out)
	}
}

func TestInvalidStartTimeRejected(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")

	if _, err := runCmd(t, dir, "events", "add", "--start", "25:99"); err == nil {
		t.Fatalf("expected out-of-range start to be rejected")
	}
	if _, err := runCmd(t, dir, "events", "add", "--start", "nope"); err == nil {
		t.Fatalf("expected malformed start to be rejected")
	}
}

func TestCommandsShareOneOutputShape(t *testing.T) {
	dir := t.TempDir()

	// Every command emits its payload bare: objects for single results,
	// arrays for lists, never a wrapper object.
	out := mustRun(t, dir, "init")
	var initOut map[string]any
	if err := json.Unmarshal([]byte(out), &initOut); err != nil {
		t.Fatalf("unmarshal init: %v\n%s", err, out)
	}
	if _, ok := initOut["data"]; ok {
		t.Fatalf("init output must not be enveloped: %v", initOut)
	}
	if _, ok := initOut["dir"]; !ok {
		t.Fatalf("init output missing dir: %v", initOut)
	}

	out = mustRun(t, dir, "reindex")
	var reOut map[string]any
	if err := json.Unmarshal([]byte(out), &reOut); err != nil {
		t.Fatalf("unmarshal reindex: %v\n%s", err, out)
	}
	if _, ok := reOut["data"]; ok {
		t.Fatalf("reindex output must not be enveloped: %v", reOut)
	}

	out = mustRun(t, dir, "calendars", "list")
	var cals []model.Calendar
	if err := json.Unmarshal([]byte(out), &cals); err != nil {
		t.Fatalf("calendars list must be a bare array: %v\n%s", err, out)
	}
}
