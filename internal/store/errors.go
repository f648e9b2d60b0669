package store

import (
	"errors"
	"fmt"
)

type errCalendarNotFound struct {
	id string
}

func (e errCalendarNotFound) Error() string {
	return fmt.Sprintf("calendar not found: %s", e.id)
}

// IsCalendarNotFound reports whether err is the typed calendar-not-found
// error (commits against unknown calendars are caller contract
// violations, treated as no-ops by the engine).
func IsCalendarNotFound(err error) bool {
	var nf errCalendarNotFound
	return errors.As(err, &nf)
}
