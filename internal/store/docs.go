package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"dayplan/internal/model"
)

// The document half of the store: one JSON document per calendar under a
// diskv key space. This is the fetch/replace interface the gesture engine
// commits through; the SQLite index is derived from it.

const docsDirName = "docs"

func (s Store) docs() *diskv.Diskv {
	return diskv.New(diskv.Options{
		BasePath:     s.docsPath(),
		CacheSizeMax: 1024 * 1024, // 1MB
	})
}

// ReadDocument fetches one calendar document by id.
func (s Store) ReadDocument(calendarID string) (model.Calendar, error) {
	d := s.docs()
	b, err := d.Read(calendarID)
	if err != nil {
		return model.Calendar{}, errCalendarNotFound{id: calendarID}
	}
	var cal model.Calendar
	if err := json.Unmarshal(b, &cal); err != nil {
		return model.Calendar{}, err
	}
	if cal.ID == "" {
		cal.ID = calendarID
	}
	return cal, nil
}

// WriteDocument replaces one calendar document wholesale.
func (s Store) WriteDocument(cal model.Calendar) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cal, "", "  ")
	if err != nil {
		return err
	}
	return s.docs().Write(cal.ID, b)
}

// DeleteDocument removes one calendar document.
func (s Store) DeleteDocument(calendarID string) error {
	return s.docs().Erase(calendarID)
}

// DocumentIDs lists the stored calendar ids, sorted.
func (s Store) DocumentIDs(ctx context.Context) []string {
	d := s.docs()
	var ids []string
	for key := range d.Keys(ctx.Done()) {
		if strings.TrimSpace(key) != "" {
			ids = append(ids, key)
		}
	}
	sort.Strings(ids)
	return ids
}

// LoadDocuments assembles the full calendar set from the per-calendar
// documents.
func (s Store) LoadDocuments(ctx context.Context) (*model.CalendarSet, error) {
	set := &model.CalendarSet{}
	for _, id := range s.DocumentIDs(ctx) {
		cal, err := s.ReadDocument(id)
		if err != nil {
			return nil, err
		}
		set.Calendars = append(set.Calendars, cal)
	}
	return set, nil
}
