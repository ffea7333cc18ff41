package automation

import (
	"testing"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/pkg/assetid"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestAllocateSequentialBatches(t *testing.T) {
	item := &models.MasterItem{ID: 1, BaseID: "LAPTOP", UsableLifeYears: 3}

	entryA := &models.StockEntry{ID: 10, MasterItemID: 1, Quantity: 5}
	entryB := &models.StockEntry{ID: 11, MasterItemID: 1, Quantity: 3}

	assert.True(t, Allocate(entryA, item))
	assert.Equal(t, 0, *entryA.StartingUnitID)
	assert.Equal(t, 5, item.TotalUnitsCreated)

	assert.True(t, Allocate(entryB, item))
	assert.Equal(t, 5, *entryB.StartingUnitID)
	assert.Equal(t, 8, item.TotalUnitsCreated)

	assert.Equal(t,
		[]string{"LAPTOP-000", "LAPTOP-001", "LAPTOP-002", "LAPTOP-003", "LAPTOP-004"},
		assetid.DeriveRange(item.BaseID, *entryA.StartingUnitID, entryA.Quantity))
	assert.Equal(t,
		[]string{"LAPTOP-005", "LAPTOP-006", "LAPTOP-007"},
		assetid.DeriveRange(item.BaseID, *entryB.StartingUnitID, entryB.Quantity))
}

func TestAllocateIsIdempotent(t *testing.T) {
	item := &models.MasterItem{ID: 1, BaseID: "LAPTOP"}
	entry := &models.StockEntry{ID: 10, MasterItemID: 1, Quantity: 5}

	assert.True(t, Allocate(entry, item))
	first := *entry.StartingUnitID

	// A second save must not re-allocate or advance the counter.
	assert.False(t, Allocate(entry, item))
	assert.Equal(t, first, *entry.StartingUnitID)
	assert.Equal(t, 5, item.TotalUnitsCreated)
}

func TestAllocateRangesNeverOverlap(t *testing.T) {
	item := &models.MasterItem{ID: 1, BaseID: "CHAIR"}
	quantities := []int{4, 1, 7, 2}

	var entries []*models.StockEntry
	for i, q := range quantities {
		entry := &models.StockEntry{ID: 100 + i, MasterItemID: 1, Quantity: q}
		assert.True(t, Allocate(entry, item))
		entries = append(entries, entry)
	}

	seen := map[int]bool{}
	for _, entry := range entries {
		for i := 0; i < entry.Quantity; i++ {
			unit := *entry.StartingUnitID + i
			assert.False(t, seen[unit], "unit %d allocated twice", unit)
			seen[unit] = true
		}
	}
	assert.Len(t, seen, 14)
}

func TestAllocateSkipsNonPositiveQuantity(t *testing.T) {
	item := &models.MasterItem{ID: 1, TotalUnitsCreated: 3}
	entry := &models.StockEntry{ID: 10, MasterItemID: 1, Quantity: 0}

	assert.False(t, Allocate(entry, item))
	assert.Nil(t, entry.StartingUnitID)
	assert.Equal(t, 3, item.TotalUnitsCreated)
}

func TestRecompute(t *testing.T) {
	purchase := models.NewDate(2022, time.January, 10)

	tests := []struct {
		name            string
		entry           models.StockEntry
		item            models.MasterItem
		now             time.Time
		expectComputed  bool
		expectedEndDate string
		expectedStatus  string
	}{
		{
			name:            "Past End Date Is Depreciated",
			entry:           models.StockEntry{PurchaseDate: &purchase},
			item:            models.MasterItem{UsableLifeYears: 3},
			now:             time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC),
			expectComputed:  true,
			expectedEndDate: "2025-01-10",
			expectedStatus:  models.DepreciationDepreciated,
		},
		{
			name:            "Before End Date Is Active",
			entry:           models.StockEntry{PurchaseDate: &purchase},
			item:            models.MasterItem{UsableLifeYears: 3},
			now:             time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			expectComputed:  true,
			expectedEndDate: "2025-01-10",
			expectedStatus:  models.DepreciationActive,
		},
		{
			name:            "Exactly At End Date Is Still Active",
			entry:           models.StockEntry{PurchaseDate: &purchase},
			item:            models.MasterItem{UsableLifeYears: 3},
			now:             time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
			expectComputed:  true,
			expectedEndDate: "2025-01-10",
			expectedStatus:  models.DepreciationActive,
		},
		{
			name:           "Missing Purchase Date Leaves Fields Untouched",
			entry:          models.StockEntry{DepreciationStatus: models.DepreciationActive},
			item:           models.MasterItem{UsableLifeYears: 3},
			now:            time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC),
			expectComputed: false,
			expectedStatus: models.DepreciationActive,
		},
		{
			name:           "Zero Usable Life Leaves Fields Untouched",
			entry:          models.StockEntry{PurchaseDate: &purchase},
			item:           models.MasterItem{UsableLifeYears: 0},
			now:            time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC),
			expectComputed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := tt.entry
			computed := Recompute(&entry, &tt.item, tt.now)

			assert.Equal(t, tt.expectComputed, computed)
			assert.NotNil(t, entry.LastCheckedDate, "last checked date is stamped on every save")
			assert.Equal(t, models.DateOf(tt.now).String(), entry.LastCheckedDate.String())

			if tt.expectComputed {
				assert.Equal(t, tt.expectedEndDate, entry.DepreciationEndDate.String())
				assert.Equal(t, tt.expectedStatus, entry.DepreciationStatus)
			} else {
				assert.Equal(t, tt.entry.DepreciationEndDate, entry.DepreciationEndDate)
				assert.Equal(t, tt.expectedStatus, entry.DepreciationStatus)
			}
		})
	}
}

func TestRecomputeStatusNeverReverts(t *testing.T) {
	purchase := models.NewDate(2020, time.March, 15)
	entry := models.StockEntry{PurchaseDate: &purchase}
	item := models.MasterItem{UsableLifeYears: 2}

	// Walk time forward across the boundary; once Depreciated, later saves
	// keep it Depreciated.
	checkpoints := []struct {
		now      time.Time
		expected string
	}{
		{time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC), models.DepreciationActive},
		{time.Date(2022, time.March, 15, 0, 0, 0, 0, time.UTC), models.DepreciationActive},
		{time.Date(2022, time.March, 16, 0, 0, 0, 0, time.UTC), models.DepreciationDepreciated},
		{time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), models.DepreciationDepreciated},
	}

	for _, cp := range checkpoints {
		Recompute(&entry, &item, cp.now)
		assert.Equal(t, cp.expected, entry.DepreciationStatus, "at %s", cp.now)
	}
}
