// Package store persists the calendar set.
//
// Layout on disk, under one store dir:
//
//	docs/<cal-id>       one JSON document per calendar (diskv key space);
//	                    the source of truth the engine commits through
//	index.sqlite        derived index for scriptable queries
//	calendars.json      legacy single-document form, imported once
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dayplan/internal/model"
)

const legacyDocName = "calendars.json"

// Store is a directory-scoped calendar store.
type Store struct {
	Dir string
}

// DefaultDir resolves the store directory: an existing .dayplan dir in
// the working directory or any parent wins, otherwise ./.dayplan.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for {
		candidate := filepath.Join(dir, ".dayplan")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Join(cwd, ".dayplan"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) docsPath() string   { return filepath.Join(s.Dir, docsDirName) }
func (s Store) legacyPath() string { return filepath.Join(s.Dir, legacyDocName) }
func (s Store) sqlitePath() string { return filepath.Join(s.Dir, "index.sqlite") }

// Load returns the full calendar set. If no per-calendar documents exist
// yet but a legacy calendars.json does, it is imported once. The SQLite
// index is refreshed as a side effect.
func (s Store) Load(ctx context.Context) (*model.CalendarSet, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	if len(s.DocumentIDs(ctx)) == 0 {
		if err := s.importLegacy(ctx); err != nil {
			return nil, err
		}
	}
	set, err := s.LoadDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Reindex(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// Save replaces every calendar document and rebuilds the index.
func (s Store) Save(ctx context.Context, set *model.CalendarSet) error {
	if set == nil {
		return fmt.Errorf("nil calendar set")
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	existing := map[string]bool{}
	for _, id := range s.DocumentIDs(ctx) {
		existing[id] = true
	}
	for _, cal := range set.Calendars {
		if err := s.WriteDocument(cal); err != nil {
			return err
		}
		delete(existing, cal.ID)
	}
	for id := range existing {
		if err := s.DeleteDocument(id); err != nil {
			return err
		}
	}
	return s.Reindex(ctx, set)
}

func (s Store) importLegacy(ctx context.Context) error {
	b, err := os.ReadFile(s.legacyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	var set model.CalendarSet
	if err := json.Unmarshal(b, &set); err != nil {
		return fmt.Errorf("parse %s: %w", legacyDocName, err)
	}
	for i := range set.Calendars {
		normalizeCalendar(&set.Calendars[i])
		if err := s.WriteDocument(set.Calendars[i]); err != nil {
			return err
		}
	}
	return nil
}

// normalizeCalendar repairs caller-side drift: event ownership must match
// the holding calendar and empty titles fall back to the default.
func normalizeCalendar(cal *model.Calendar) {
	for i := range cal.Events {
		if cal.Events[i].CalendarID != cal.ID {
			cal.Events[i].CalendarID = cal.ID
		}
		if cal.Events[i].Title == "" {
			cal.Events[i].Title = model.DefaultTitle
		}
	}
}

// CreateCalendar adds an empty calendar and returns it.
func (s Store) CreateCalendar(ctx context.Context, name string) (model.Calendar, error) {
	id, err := NewCalendarID()
	if err != nil {
		return model.Calendar{}, err
	}
	cal := model.Calendar{ID: id, Name: name}
	if err := s.WriteDocument(cal); err != nil {
		return model.Calendar{}, err
	}
	return cal, s.indexCalendar(ctx, cal)
}

// RenameCalendar updates a calendar's display name.
func (s Store) RenameCalendar(ctx context.Context, id, name string) error {
	cal, err := s.ReadDocument(id)
	if err != nil {
		return err
	}
	cal.Name = name
	if err := s.WriteDocument(cal); err != nil {
		return err
	}
	return s.indexCalendar(ctx, cal)
}

// RemoveCalendar deletes a calendar document and its index rows.
func (s Store) RemoveCalendar(ctx context.Context, id string) error {
	if _, err := s.ReadDocument(id); err != nil {
		return err
	}
	if err := s.DeleteDocument(id); err != nil {
		return err
	}
	return s.deindexCalendar(ctx, id)
}

// LoadEvents implements the gesture engine's read half.
func (s Store) LoadEvents(calendarID string) ([]model.Event, error) {
	cal, err := s.ReadDocument(calendarID)
	if err != nil {
		return nil, err
	}
	return cal.Events, nil
}

// Commit merges the given events (by id) into their calendar's document
// and refreshes that calendar's index rows. Committing against an
// unknown calendar is a caller contract violation and returns the typed
// not-found error.
func (s Store) Commit(calendarID string, events []model.Event) error {
	cal, err := s.ReadDocument(calendarID)
	if err != nil {
		return err
	}
	for _, in := range events {
		in.CalendarID = calendarID
		if ex := cal.FindEvent(in.ID); ex != nil {
			*ex = in
		} else {
			cal.Events = append(cal.Events, in)
		}
	}
	if err := s.WriteDocument(cal); err != nil {
		return err
	}
	return s.indexCalendar(context.Background(), cal)
}

// Remove deletes the given events from their calendar's document in one
// batch.
func (s Store) Remove(calendarID string, eventIDs []string) error {
	cal, err := s.ReadDocument(calendarID)
	if err != nil {
		return err
	}
	drop := map[string]bool{}
	for _, id := range eventIDs {
		drop[id] = true
	}
	kept := cal.Events[:0]
	for _, e := range cal.Events {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	cal.Events = kept
	if err := s.WriteDocument(cal); err != nil {
		return err
	}
	return s.indexCalendar(context.Background(), cal)
}
