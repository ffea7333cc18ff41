package audit

import (
	"testing"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/internal/catalog"
	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpsertRow(row models.AuditLogRow) error {
	args := m.Called(row)
	return args.Error(0)
}

func (m *MockStore) GetSessionRows(sessionID string) ([]models.AuditLogRow, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLogRow), args.Error(1)
}

func (m *MockStore) ListSessionIDs() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) LastSeen(fullAssetID string, before time.Time) (*models.AuditLogRow, error) {
	args := m.Called(fullAssetID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLogRow), args.Error(1)
}

func (m *MockStore) LatestSessionTimestamp(sessionID string) (*time.Time, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

type MockEntryStore struct {
	mock.Mock
}

func (m *MockEntryStore) GetEntryDetail(entryID int) (*catalog.FlatEntryDetail, error) {
	args := m.Called(entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.FlatEntryDetail), args.Error(1)
}

type MockLocationStore struct {
	mock.Mock
}

func (m *MockLocationStore) GetLocation(id int) (*models.Location, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(store *MockStore, entries *MockEntryStore, locations *MockLocationStore, users *MockUserStore) *Service {
	return NewService(store, entries, locations, users, zap.NewNop())
}

const testSession = "audit-20250307_12_3"

func foundUnit(assetID string) UnitResult {
	return UnitResult{
		StockEntryID: 10,
		UnitIndex:    1,
		FullAssetID:  assetID,
		State:        string(StateFound),
		Condition:    models.ConditionOkay,
	}
}

func TestSaveUnitResultMapsNotFound(t *testing.T) {
	store := new(MockStore)
	store.On("UpsertRow", mock.MatchedBy(func(row models.AuditLogRow) bool {
		return !row.IsFound && row.AuditCondition == models.ConditionNotFound
	})).Return(nil)

	service := newTestService(store, new(MockEntryStore), new(MockLocationStore), new(MockUserStore))

	unit := UnitResult{StockEntryID: 10, UnitIndex: 2, FullAssetID: "LAPTOP-002", State: string(StateNotFound)}
	err := service.SaveUnitResult(testSession, 3, unit, time.Now())

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSaveUnitResultFallsBackToCatalogImage(t *testing.T) {
	store := new(MockStore)
	store.On("UpsertRow", mock.MatchedBy(func(row models.AuditLogRow) bool {
		return row.IsFound && row.RevisionPhotoURL == "https://cdn.example.com/laptop.jpg"
	})).Return(nil)

	entries := new(MockEntryStore)
	entries.On("GetEntryDetail", 10).Return(&catalog.FlatEntryDetail{
		StockEntryID: 10,
		ImageURL:     "https://cdn.example.com/laptop.jpg",
	}, nil)

	service := newTestService(store, entries, new(MockLocationStore), new(MockUserStore))

	err := service.SaveUnitResult(testSession, 3, foundUnit("LAPTOP-001"), time.Now())

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSaveUnitResultKeepsSubmittedPhoto(t *testing.T) {
	store := new(MockStore)
	store.On("UpsertRow", mock.MatchedBy(func(row models.AuditLogRow) bool {
		return row.RevisionPhotoURL == "https://media.example.com/damage.jpg"
	})).Return(nil)

	service := newTestService(store, new(MockEntryStore), new(MockLocationStore), new(MockUserStore))

	unit := foundUnit("LAPTOP-001")
	unit.Condition = models.ConditionNeedsRevision
	unit.Notes = "Cracked hinge"
	unit.PhotoURL = "https://media.example.com/damage.jpg"
	err := service.SaveUnitResult(testSession, 3, unit, time.Now())

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSaveUnitResultRejectsPending(t *testing.T) {
	service := newTestService(new(MockStore), new(MockEntryStore), new(MockLocationStore), new(MockUserStore))

	unit := UnitResult{StockEntryID: 10, FullAssetID: "LAPTOP-003", State: string(StatePending)}
	err := service.SaveUnitResult(testSession, 3, unit, time.Now())

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "LAPTOP-003", validationErr.AssetID)
}

func TestCompleteSessionRejectsRevisionWithoutNotes(t *testing.T) {
	store := new(MockStore)
	service := newTestService(store, new(MockEntryStore), new(MockLocationStore), new(MockUserStore))

	incomplete := foundUnit("LAPTOP-002")
	incomplete.Condition = models.ConditionNeedsRevision
	incomplete.PhotoURL = "https://media.example.com/damage.jpg"

	_, err := service.CompleteSession(testSession, 3, []UnitResult{foundUnit("LAPTOP-001"), incomplete})

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "LAPTOP-002", validationErr.AssetID)
	// Validation failed before any write.
	store.AssertNotCalled(t, "UpsertRow", mock.Anything)
}

func TestCompleteSessionRejectsRevisionWithoutPhoto(t *testing.T) {
	service := newTestService(new(MockStore), new(MockEntryStore), new(MockLocationStore), new(MockUserStore))

	incomplete := foundUnit("LAPTOP-002")
	incomplete.Condition = models.ConditionNeedsRevision
	incomplete.Notes = "Screen flickers"

	_, err := service.CompleteSession(testSession, 3, []UnitResult{incomplete})

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Reason, "photo")
}

func TestCompleteSessionSavesAllUnits(t *testing.T) {
	store := new(MockStore)
	store.On("UpsertRow", mock.Anything).Return(nil)

	entries := new(MockEntryStore)
	entries.On("GetEntryDetail", 10).Return(&catalog.FlatEntryDetail{StockEntryID: 10}, nil)

	service := newTestService(store, entries, new(MockLocationStore), new(MockUserStore))

	notFound := UnitResult{StockEntryID: 10, UnitIndex: 3, FullAssetID: "LAPTOP-003", State: string(StateNotFound)}
	summary, err := service.CompleteSession(testSession, 3, []UnitResult{foundUnit("LAPTOP-001"), notFound})

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Saved)
	assert.Empty(t, summary.Failed)
	store.AssertNumberOfCalls(t, "UpsertRow", 2)
}

func TestCompleteSessionRejectsEmptyBatch(t *testing.T) {
	service := newTestService(new(MockStore), new(MockEntryStore), new(MockLocationStore), new(MockUserStore))

	_, err := service.CompleteSession(testSession, 3, nil)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestBuildReportPartitionsAndResolvesHeader(t *testing.T) {
	now := time.Date(2025, time.March, 7, 16, 0, 0, 0, time.UTC)

	store := new(MockStore)
	store.On("GetSessionRows", testSession).Return([]models.AuditLogRow{
		{StockEntryID: 10, UnitIndex: 0, FullAssetID: "LAPTOP-000", IsFound: true, AuditCondition: models.ConditionOkay},
		{StockEntryID: 10, UnitIndex: 1, FullAssetID: "LAPTOP-001", IsFound: false, AuditCondition: models.ConditionNotFound},
	}, nil)
	store.On("LatestSessionTimestamp", testSession).Return(&now, nil)
	store.On("LastSeen", "LAPTOP-001", now).Return(nil, nil)

	purchase := models.NewDate(2024, time.June, 15)
	entries := new(MockEntryStore)
	entries.On("GetEntryDetail", 10).Return(&catalog.FlatEntryDetail{
		StockEntryID: 10,
		Title:        "Dell Latitude 5440",
		PurchaseDate: &purchase,
	}, nil)

	locations := new(MockLocationStore)
	locations.On("GetLocation", 12).Return(&models.Location{ID: 12, Name: "Computer Lab"}, nil)

	users := new(MockUserStore)
	users.On("GetUser", 3).Return(&models.User{ID: 3, Fullname: "Grace Okafor"}, nil)

	service := newTestService(store, entries, locations, users)

	report, err := service.BuildReport(testSession)

	assert.NoError(t, err)
	assert.Equal(t, "Computer Lab", report.LocationName)
	assert.Equal(t, "Grace Okafor", report.AuditorName)
	assert.Equal(t, "07/03/2025", report.AuditDate)
	assert.Equal(t, 1, report.FoundCount)
	assert.Equal(t, 1, report.MissingCount)
	assert.Equal(t, "Dell Latitude 5440", report.Found[0].Title)
	assert.Equal(t, "Not seen since purchase on 15/06/2024", report.Missing[0].LastSeen)
}

func TestBuildReportPrefersPriorSighting(t *testing.T) {
	sessionTime := time.Date(2025, time.March, 7, 16, 0, 0, 0, time.UTC)

	store := new(MockStore)
	store.On("GetSessionRows", testSession).Return([]models.AuditLogRow{
		{StockEntryID: 10, UnitIndex: 1, FullAssetID: "LAPTOP-001", IsFound: false, AuditCondition: models.ConditionNotFound},
	}, nil)
	store.On("LatestSessionTimestamp", testSession).Return(&sessionTime, nil)
	store.On("LastSeen", "LAPTOP-001", sessionTime).Return(&models.AuditLogRow{
		FullAssetID:    "LAPTOP-001",
		IsFound:        true,
		AuditTimestamp: time.Date(2025, time.January, 20, 10, 0, 0, 0, time.UTC),
	}, nil)

	entries := new(MockEntryStore)
	entries.On("GetEntryDetail", 10).Return(&catalog.FlatEntryDetail{StockEntryID: 10}, nil)

	locations := new(MockLocationStore)
	locations.On("GetLocation", 12).Return(&models.Location{ID: 12, Name: "Computer Lab"}, nil)
	users := new(MockUserStore)
	users.On("GetUser", 3).Return(&models.User{ID: 3, Fullname: "Grace Okafor"}, nil)

	service := newTestService(store, entries, locations, users)

	report, err := service.BuildReport(testSession)

	assert.NoError(t, err)
	assert.Equal(t, "Last seen on 20/01/2025", report.Missing[0].LastSeen)
}

func TestBuildReportBoundsLastSeenBySessionTime(t *testing.T) {
	// The asset was missing in this April session and found again in May.
	// Rebuilding the April report must query sightings strictly before the
	// April session's timestamp, so the May sighting never surfaces.
	aprilSession := time.Date(2025, time.April, 1, 15, 0, 0, 0, time.UTC)
	purchase := models.NewDate(2024, time.June, 15)

	store := new(MockStore)
	store.On("GetSessionRows", testSession).Return([]models.AuditLogRow{
		{StockEntryID: 10, UnitIndex: 1, FullAssetID: "LAPTOP-001", IsFound: false, AuditCondition: models.ConditionNotFound},
	}, nil)
	store.On("LatestSessionTimestamp", testSession).Return(&aprilSession, nil)
	store.On("LastSeen", "LAPTOP-001", aprilSession).Return(nil, nil)

	entries := new(MockEntryStore)
	entries.On("GetEntryDetail", 10).Return(&catalog.FlatEntryDetail{
		StockEntryID: 10,
		PurchaseDate: &purchase,
	}, nil)

	locations := new(MockLocationStore)
	locations.On("GetLocation", 12).Return(&models.Location{ID: 12, Name: "Computer Lab"}, nil)
	users := new(MockUserStore)
	users.On("GetUser", 3).Return(&models.User{ID: 3, Fullname: "Grace Okafor"}, nil)

	service := newTestService(store, entries, locations, users)

	report, err := service.BuildReport(testSession)

	assert.NoError(t, err)
	assert.Equal(t, "Not seen since purchase on 15/06/2024", report.Missing[0].LastSeen)
	// The lookup must carry the session's own timestamp as its upper bound.
	store.AssertCalled(t, "LastSeen", "LAPTOP-001", aprilSession)
}

func TestBuildReportLastSeenUnavailable(t *testing.T) {
	sessionTime := time.Date(2025, time.March, 7, 16, 0, 0, 0, time.UTC)

	store := new(MockStore)
	store.On("GetSessionRows", testSession).Return([]models.AuditLogRow{
		{StockEntryID: 10, UnitIndex: 1, FullAssetID: "LAPTOP-001", IsFound: false, AuditCondition: models.ConditionNotFound},
	}, nil)
	store.On("LatestSessionTimestamp", testSession).Return(&sessionTime, nil)
	store.On("LastSeen", "LAPTOP-001", sessionTime).Return(nil, nil)

	entries := new(MockEntryStore)
	entries.On("GetEntryDetail", 10).Return(&catalog.FlatEntryDetail{StockEntryID: 10}, nil)

	locations := new(MockLocationStore)
	locations.On("GetLocation", 12).Return(nil, nil)
	users := new(MockUserStore)
	users.On("GetUser", 3).Return(nil, nil)

	service := newTestService(store, entries, locations, users)

	report, err := service.BuildReport(testSession)

	assert.NoError(t, err)
	assert.Equal(t, "Not available", report.Missing[0].LastSeen)
	// Header falls back to numeric identifiers when lookups come back empty.
	assert.Equal(t, "location 12", report.LocationName)
	assert.Equal(t, "auditor 3", report.AuditorName)
}

func TestBuildReportReturnsNilForUnknownSession(t *testing.T) {
	store := new(MockStore)
	store.On("GetSessionRows", "audit-20250307_99_1").Return([]models.AuditLogRow{}, nil)

	service := newTestService(store, new(MockEntryStore), new(MockLocationStore), new(MockUserStore))

	report, err := service.BuildReport("audit-20250307_99_1")

	assert.NoError(t, err)
	assert.Nil(t, report)
}
