package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const sessionPrefix = "audit-"

// SessionKey identifies one audit run: one auditor sweeping one location on
// one calendar day. Re-auditing the same location on the same day overwrites
// into the same session instead of opening a new one.
type SessionKey struct {
	Date       time.Time
	LocationID int
	AuditorID  int
}

// SessionID derives the composite session identifier:
// "audit-YYYYMMDD_<locationID>_<auditorID>".
func SessionID(date time.Time, locationID, auditorID int) string {
	return fmt.Sprintf("%s%s_%d_%d", sessionPrefix, date.Format("20060102"), locationID, auditorID)
}

// ParseSessionID splits a session identifier back into its key. Report views
// use this to resolve the location and auditor names for the header.
func ParseSessionID(sessionID string) (SessionKey, error) {
	if !strings.HasPrefix(sessionID, sessionPrefix) {
		return SessionKey{}, fmt.Errorf("session ID %q does not start with %q", sessionID, sessionPrefix)
	}

	parts := strings.Split(strings.TrimPrefix(sessionID, sessionPrefix), "_")
	if len(parts) != 3 {
		return SessionKey{}, fmt.Errorf("session ID %q is not in audit-YYYYMMDD_location_auditor format", sessionID)
	}

	date, err := time.Parse("20060102", parts[0])
	if err != nil {
		return SessionKey{}, fmt.Errorf("session ID %q has an invalid date: %w", sessionID, err)
	}

	locationID, err := strconv.Atoi(parts[1])
	if err != nil {
		return SessionKey{}, fmt.Errorf("session ID %q has a non-numeric location: %w", sessionID, err)
	}

	auditorID, err := strconv.Atoi(parts[2])
	if err != nil {
		return SessionKey{}, fmt.Errorf("session ID %q has a non-numeric auditor: %w", sessionID, err)
	}

	return SessionKey{Date: date, LocationID: locationID, AuditorID: auditorID}, nil
}
