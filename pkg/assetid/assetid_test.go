package assetid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name       string
		baseID     string
		unitNumber int
		expected   string
	}{
		{
			name:       "Zero Padded",
			baseID:     "LAPTOP",
			unitNumber: 6,
			expected:   "LAPTOP-006",
		},
		{
			name:       "Three Digits",
			baseID:     "PROJ",
			unitNumber: 123,
			expected:   "PROJ-123",
		},
		{
			name:       "Wide Numbers Keep Full Width",
			baseID:     "CHAIR",
			unitNumber: 1042,
			expected:   "CHAIR-1042",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Derive(tt.baseID, tt.unitNumber))
		})
	}
}

func TestDeriveRange(t *testing.T) {
	ids := DeriveRange("LAPTOP", 5, 3)
	assert.Equal(t, []string{"LAPTOP-005", "LAPTOP-006", "LAPTOP-007"}, ids)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		scanned      string
		expectedBase string
		expectedUnit int
		expectErr    bool
	}{
		{
			name:         "Basic Case",
			scanned:      "LAPTOP-006",
			expectedBase: "LAPTOP",
			expectedUnit: 6,
		},
		{
			name:         "Base ID With Dash",
			scanned:      "LAB-PC-012",
			expectedBase: "LAB-PC",
			expectedUnit: 12,
		},
		{
			name:      "No Separator",
			scanned:   "LAPTOP006",
			expectErr: true,
		},
		{
			name:      "Non Numeric Unit",
			scanned:   "LAPTOP-ABC",
			expectErr: true,
		},
		{
			name:      "Trailing Dash",
			scanned:   "LAPTOP-",
			expectErr: true,
		},
		{
			name:      "Empty",
			scanned:   "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, unit, err := Parse(tt.scanned)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBase, base)
			assert.Equal(t, tt.expectedUnit, unit)
		})
	}
}

func TestDeriveParseRoundTrip(t *testing.T) {
	base, unit, err := Parse(Derive("LAPTOP", 7))
	assert.NoError(t, err)
	assert.Equal(t, "LAPTOP", base)
	assert.Equal(t, 7, unit)
}
