package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceCyclesThroughAllStates(t *testing.T) {
	assert.Equal(t, StateFound, StatePending.Advance())
	assert.Equal(t, StateNotFound, StateFound.Advance())
	assert.Equal(t, StatePending, StateNotFound.Advance())
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatePending.Terminal())
	assert.True(t, StateFound.Terminal())
	assert.True(t, StateNotFound.Terminal())
}

func TestParseUnitState(t *testing.T) {
	state, err := ParseUnitState("found")
	assert.NoError(t, err)
	assert.Equal(t, StateFound, state)

	_, err = ParseUnitState("misplaced")
	assert.Error(t, err)
}

func TestSessionID(t *testing.T) {
	date := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "audit-20250307_12_3", SessionID(date, 12, 3))
}

func TestSessionIDStableWithinDay(t *testing.T) {
	morning := time.Date(2025, time.March, 7, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.March, 7, 21, 45, 0, 0, time.UTC)
	assert.Equal(t, SessionID(morning, 12, 3), SessionID(evening, 12, 3))
}

func TestParseSessionID(t *testing.T) {
	key, err := ParseSessionID("audit-20250307_12_3")

	assert.NoError(t, err)
	assert.Equal(t, 12, key.LocationID)
	assert.Equal(t, 3, key.AuditorID)
	assert.Equal(t, time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC), key.Date)
}

func TestParseSessionIDRejectsMalformed(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
	}{
		{"Missing Prefix", "20250307_12_3"},
		{"Too Few Parts", "audit-20250307_12"},
		{"Bad Date", "audit-2025037_12_3"},
		{"Non Numeric Location", "audit-20250307_lab_3"},
		{"Non Numeric Auditor", "audit-20250307_12_bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSessionID(tt.sessionID)
			assert.Error(t, err)
		})
	}
}

func TestSessionIDRoundTrip(t *testing.T) {
	id := SessionID(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 104, 27)
	key, err := ParseSessionID(id)

	assert.NoError(t, err)
	assert.Equal(t, id, SessionID(key.Date, key.LocationID, key.AuditorID))
}
