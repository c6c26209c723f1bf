// Package clinicerr defines the failure conditions reported by the clinic
// core. Callers distinguish conditions with errors.Is; lookup misses are not
// errors and are reported as nil or empty results instead.
package clinicerr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrAccessDenied is returned when a data operation is attempted
	// while logged out.
	ErrAccessDenied = errors.New("access denied: not logged in")
	// ErrAlreadyLoggedIn is returned by login while a session is active.
	ErrAlreadyLoggedIn = errors.New("already logged in")
	// ErrNotLoggedIn is returned by logout while no session is active.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrInvalidCredentials is returned when the username is unknown or
	// the password does not match the stored credential.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoCurrentPatient is returned by note operations while no patient
	// is selected.
	ErrNoCurrentPatient = errors.New("no current patient selected")
	// ErrIllegalOperation covers precondition violations: a non-integral
	// identifier, a duplicate or in-use identifier, a required identifier
	// that does not exist, or an attempt to mutate the selected patient.
	ErrIllegalOperation = errors.New("illegal operation")
)

// ParseID converts caller-supplied text into an integral identifier (a PHN
// or a note index). Fractional or non-numeric input fails with
// ErrIllegalOperation before it can reach the registry or a note store.
// A textual float with no fractional part, such as "41.0", is accepted.
func ParseID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.Atoi(raw); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: identifier %q is not a number", ErrIllegalOperation, raw)
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: identifier %q is not integral", ErrIllegalOperation, raw)
	}
	return int(f), nil
}
