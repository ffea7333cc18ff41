package catalog

import (
	"testing"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockMasterStore struct {
	mock.Mock
}

func (m *MockMasterStore) GetMasterItems() ([]models.MasterItem, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasterItem), args.Error(1)
}

func (m *MockMasterStore) GetMasterItemsByIDs(ids []int) ([]models.MasterItem, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasterItem), args.Error(1)
}

func (m *MockMasterStore) SearchMasterItemIDs(term string) ([]int, error) {
	args := m.Called(term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockMasterStore) GetMasterItemByBaseID(baseID string) (*models.MasterItem, error) {
	args := m.Called(baseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasterItem), args.Error(1)
}

type MockEntryDetailStore struct {
	mock.Mock
}

func (m *MockEntryDetailStore) GetEntriesWithItems(conditions ...goqu.Expression) ([]FlatEntryDetail, error) {
	args := m.Called(conditions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FlatEntryDetail), args.Error(1)
}

func (m *MockEntryDetailStore) GetStockEntriesByMasterItem(masterItemID int) ([]models.StockEntry, error) {
	args := m.Called(masterItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StockEntry), args.Error(1)
}

func (m *MockEntryDetailStore) GetEntryDetail(entryID int) (*FlatEntryDetail, error) {
	args := m.Called(entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FlatEntryDetail), args.Error(1)
}

func (m *MockEntryDetailStore) FindStockEntryIDByAssetID(fullAssetID string) (int, error) {
	args := m.Called(fullAssetID)
	return args.Int(0), args.Error(1)
}

func intPtr(v int) *int { return &v }

func laptopItem() models.MasterItem {
	return models.MasterItem{ID: 1, BaseID: "LAPTOP", Title: "Dell Latitude 5440", UsableLifeYears: 3}
}

func newTestService(masters *MockMasterStore, entries *MockEntryDetailStore) *Service {
	return NewService(masters, entries, zap.NewNop())
}

func TestSummariesAggregatesAcrossEntries(t *testing.T) {
	masters := new(MockMasterStore)
	masters.On("GetMasterItems").Return([]models.MasterItem{laptopItem()}, nil)

	entries := new(MockEntryDetailStore)
	entries.On("GetEntriesWithItems", mock.Anything).Return([]FlatEntryDetail{
		{StockEntryID: 10, MasterItemID: 1, Quantity: 5, LocationName: "Computer Lab", DepreciationStatus: models.DepreciationActive},
		{StockEntryID: 11, MasterItemID: 1, Quantity: 3, LocationName: "Science Lab", DepreciationStatus: models.DepreciationDepreciated},
	}, nil)

	summaries, emptyReason, err := newTestService(masters, entries).Summaries(nil, "")

	assert.NoError(t, err)
	assert.Empty(t, emptyReason)
	assert.Len(t, summaries, 1)
	assert.Equal(t, 8, summaries[0].TotalQuantity)
	assert.Equal(t, 5, summaries[0].LocationBreakdown["Computer Lab"])
	assert.Equal(t, 3, summaries[0].LocationBreakdown["Science Lab"])
	assert.Equal(t, 5, summaries[0].StatusBreakdown[models.DepreciationActive])
	assert.Equal(t, 3, summaries[0].StatusBreakdown[models.DepreciationDepreciated])
	assert.Equal(t, "LAPTOP", summaries[0].MasterItem.BaseID)
}

func TestSummariesEmptyCatalog(t *testing.T) {
	masters := new(MockMasterStore)
	masters.On("GetMasterItems").Return([]models.MasterItem{}, nil)

	summaries, emptyReason, err := newTestService(masters, new(MockEntryDetailStore)).Summaries(nil, "")

	assert.NoError(t, err)
	assert.Empty(t, summaries)
	assert.Equal(t, EmptyReasonNoMasterItems, emptyReason)
}

func TestSummariesNoSearchMatches(t *testing.T) {
	masters := new(MockMasterStore)
	masters.On("SearchMasterItemIDs", "ghost").Return([]int{}, nil)

	summaries, emptyReason, err := newTestService(masters, new(MockEntryDetailStore)).Summaries(nil, "ghost")

	assert.NoError(t, err)
	assert.Empty(t, summaries)
	assert.Equal(t, EmptyReasonNoMatches, emptyReason)
}

func TestSummariesExactAssetIDSearch(t *testing.T) {
	masters := new(MockMasterStore)
	masters.On("GetMasterItemsByIDs", []int{1}).Return([]models.MasterItem{laptopItem()}, nil)

	entries := new(MockEntryDetailStore)
	entries.On("FindStockEntryIDByAssetID", "LAPTOP-003").Return(10, nil)
	entries.On("GetEntryDetail", 10).Return(&FlatEntryDetail{StockEntryID: 10, MasterItemID: 1}, nil)
	entries.On("GetEntriesWithItems", mock.Anything).Return([]FlatEntryDetail{
		{StockEntryID: 10, MasterItemID: 1, Quantity: 5, LocationName: "Computer Lab"},
	}, nil)

	summaries, emptyReason, err := newTestService(masters, entries).Summaries(nil, "LAPTOP-003")

	assert.NoError(t, err)
	assert.Empty(t, emptyReason)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "LAPTOP", summaries[0].MasterItem.BaseID)
	// The catalog text search is skipped when the audit log resolves the ID.
	masters.AssertNotCalled(t, "SearchMasterItemIDs", mock.Anything)
}

func TestSummariesNoStockInLocation(t *testing.T) {
	masters := new(MockMasterStore)
	masters.On("GetMasterItems").Return([]models.MasterItem{laptopItem()}, nil)

	entries := new(MockEntryDetailStore)
	entries.On("GetEntriesWithItems", mock.Anything).Return([]FlatEntryDetail{}, nil)

	filters := repository.NewQueryBuilder()
	filters.AddCondition("location_id", 99)
	summaries, emptyReason, err := newTestService(masters, entries).Summaries(filters, "")

	assert.NoError(t, err)
	assert.Empty(t, summaries)
	assert.Equal(t, EmptyReasonNoStock, emptyReason)
}

func TestSummariesUnassignedLocationBucket(t *testing.T) {
	masters := new(MockMasterStore)
	masters.On("GetMasterItems").Return([]models.MasterItem{laptopItem()}, nil)

	entries := new(MockEntryDetailStore)
	entries.On("GetEntriesWithItems", mock.Anything).Return([]FlatEntryDetail{
		{StockEntryID: 10, MasterItemID: 1, Quantity: 2},
	}, nil)

	summaries, _, err := newTestService(masters, entries).Summaries(nil, "")

	assert.NoError(t, err)
	assert.Equal(t, 2, summaries[0].LocationBreakdown["Unassigned"])
}

func TestEntryDetailsFormatsProjection(t *testing.T) {
	purchase := models.NewDate(2022, 1, 10)
	entries := new(MockEntryDetailStore)
	entries.On("GetEntryDetail", 10).Return(&FlatEntryDetail{
		StockEntryID: 10,
		Title:        "Dell Latitude 5440",
		LocationName: "Computer Lab",
		PurchaseDate: &purchase,
		ItemPrice:    decimal.RequireFromString("1299.99"),
	}, nil)

	details, err := newTestService(new(MockMasterStore), entries).EntryDetails(10)

	assert.NoError(t, err)
	assert.NotNil(t, details)
	assert.Equal(t, "Dell Latitude 5440", details.Title)
	assert.Equal(t, "Computer Lab", details.Location)
	assert.Equal(t, "10/01/2022", details.PurchaseDate)
	assert.Equal(t, "1299.99", details.Price)
	// Absent fields render as N/A, not empty strings.
	assert.Equal(t, "N/A", details.Brand)
}

func TestEntryDetailsUnknownEntry(t *testing.T) {
	entries := new(MockEntryDetailStore)
	entries.On("GetEntryDetail", 99).Return(nil, nil)

	details, err := newTestService(new(MockMasterStore), entries).EntryDetails(99)

	assert.NoError(t, err)
	assert.Nil(t, details)
}

func TestAssetDetailsResolvesOwningEntry(t *testing.T) {
	masters := new(MockMasterStore)
	masters.On("GetMasterItemByBaseID", "LAPTOP").Return(&models.MasterItem{ID: 1, BaseID: "LAPTOP"}, nil)

	purchase := models.NewDate(2022, 1, 10)
	entries := new(MockEntryDetailStore)
	entries.On("GetStockEntriesByMasterItem", 1).Return([]models.StockEntry{
		{ID: 10, MasterItemID: 1, Quantity: 5, StartingUnitID: intPtr(0)},
		{ID: 11, MasterItemID: 1, Quantity: 3, StartingUnitID: intPtr(5)},
	}, nil)
	entries.On("GetEntryDetail", 11).Return(&FlatEntryDetail{
		StockEntryID: 11,
		Title:        "Dell Latitude 5440",
		LocationName: "Science Lab",
		PurchaseDate: &purchase,
		ItemPrice:    decimal.RequireFromString("1299.99"),
	}, nil)

	details, err := newTestService(masters, entries).AssetDetails("LAPTOP-006")

	assert.NoError(t, err)
	assert.NotNil(t, details)
	assert.Equal(t, "Dell Latitude 5440", details.Title)
	assert.Equal(t, "Science Lab", details.Location)
	assert.Equal(t, "1299.99", details.Price)
	assert.Equal(t, "10/01/2022", details.PurchaseDate)
	// Only the owning entry is fetched.
	entries.AssertNotCalled(t, "GetEntryDetail", 10)
}

func TestAssetDetailsUnknownUnit(t *testing.T) {
	masters := new(MockMasterStore)
	masters.On("GetMasterItemByBaseID", "LAPTOP").Return(&models.MasterItem{ID: 1, BaseID: "LAPTOP"}, nil)

	entries := new(MockEntryDetailStore)
	entries.On("GetStockEntriesByMasterItem", 1).Return([]models.StockEntry{
		{ID: 10, MasterItemID: 1, Quantity: 5, StartingUnitID: intPtr(0)},
	}, nil)

	details, err := newTestService(masters, entries).AssetDetails("LAPTOP-042")

	assert.NoError(t, err)
	assert.Nil(t, details)
}

func TestAssetDetailsMalformedID(t *testing.T) {
	details, err := newTestService(new(MockMasterStore), new(MockEntryDetailStore)).AssetDetails("???")

	assert.NoError(t, err)
	assert.Nil(t, details)
}
