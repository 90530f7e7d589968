package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/bakeops/ovenboard/pkg/models/store"
	"github.com/bakeops/ovenboard/pkg/services/inventory"
	"github.com/bakeops/ovenboard/pkg/store/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBakehouse struct {
	mock.Mock
}

func (m *mockBakehouse) GetInventory(ctx context.Context, lookbackDays, leadTimeDays int) ([]api.RawInventoryRecord, error) {
	args := m.Called(ctx, lookbackDays, leadTimeDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.RawInventoryRecord), args.Error(1)
}

func (m *mockBakehouse) UpdatePosition(ctx context.Context, productKey string, edit api.PositionEdit) (*api.RawInventoryRecord, error) {
	args := m.Called(ctx, productKey, edit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.RawInventoryRecord), args.Error(1)
}

func (m *mockBakehouse) GenerateForecast(ctx context.Context, req api.ForecastRequest) (*api.ForecastResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ForecastResponse), args.Error(1)
}

func (m *mockBakehouse) Health(ctx context.Context) (*api.HealthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.HealthStatus), args.Error(1)
}

type mockSnapshots struct {
	mock.Mock
}

func (m *mockSnapshots) Save(ctx context.Context, snapshots []store.InventorySnapshot) error {
	args := m.Called(ctx, snapshots)
	return args.Error(0)
}

func (m *mockSnapshots) Load(ctx context.Context) ([]store.InventorySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.InventorySnapshot), args.Error(1)
}

func (m *mockSnapshots) CapturedAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func rawPosition(sku string, qty int, threshold int, rate float64) api.RawInventoryRecord {
	return api.RawInventoryRecord{
		SKU:                  sku,
		DisplayName:          sku,
		CurrentQuantity:      intPtr(qty),
		RestockThreshold:     intPtr(threshold),
		DailyConsumptionRate: floatPtr(rate),
	}
}

func newTestSession(t *testing.T, bakehouse *mockBakehouse) *Session {
	t.Helper()
	s, err := NewSession(
		Dependencies{Client: bakehouse},
		Params{LookbackDays: 30, LeadTimeDays: 7},
	)
	require.NoError(t, err)
	return s
}

func TestRefreshInventory_ClassifiesAndRenders(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).Return([]api.RawInventoryRecord{
		rawPosition("rye-800", 50, 20, 10),
		rawPosition("bag-250", 0, 0, 0),
		{DisplayName: ""}, // malformed, skipped
	}, nil)

	s := newTestSession(t, bakehouse)
	require.NoError(t, s.RefreshInventory(context.Background()))

	v := s.InventoryView()
	assert.Equal(t, 1, v.SkippedRecords)
	assert.False(t, v.Stale)
	require.Len(t, v.Rows, 2)

	assert.Equal(t, "reorder_soon", v.Rows[0].Status)
	require.NotNil(t, v.Rows[0].DaysUntilRestock)
	assert.Equal(t, 3.0, *v.Rows[0].DaysUntilRestock)
	assert.Equal(t, 40, v.Rows[0].SuggestedOrderQty)

	assert.Equal(t, "no_inventory", v.Rows[1].Status)
	assert.Nil(t, v.Rows[1].DaysUntilRestock)
}

func TestRefreshInventory_SupersededResponseIsDiscarded(t *testing.T) {
	bakehouse := new(mockBakehouse)

	started := make(chan struct{})
	gate := make(chan struct{})

	// The first refresh reaches the bakehouse, stalls, and only resolves
	// after a second refresh has already been applied. Its stale payload
	// must not overwrite the newer one.
	bakehouse.On("GetInventory", mock.Anything, 30, 7).Once().
		Run(func(mock.Arguments) {
			close(started)
			<-gate
		}).
		Return([]api.RawInventoryRecord{rawPosition("stale", 1, 0, 0)}, nil)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).Once().
		Return([]api.RawInventoryRecord{rawPosition("fresh", 2, 0, 0)}, nil)

	s := newTestSession(t, bakehouse)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.RefreshInventory(context.Background())
	}()

	<-started
	require.NoError(t, s.RefreshInventory(context.Background()))
	close(gate)
	wg.Wait()

	v := s.InventoryView()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "fresh", v.Rows[0].Product)
}

func TestRefreshInventory_TransportErrorFallsBackToSnapshot(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).
		Return(nil, &client.TransportError{URL: "http://bakehouse", Err: errors.New("connection refused")})

	snapshots := new(mockSnapshots)
	snapshots.On("Load", mock.Anything).Return([]store.InventorySnapshot{
		{ProductKey: "rye-800", DisplayName: "Rye", Quantity: 50, RestockThreshold: intPtr(20), DailyRate: 10},
	}, nil)

	s, err := NewSession(
		Dependencies{Client: bakehouse, Snapshots: snapshots},
		Params{LookbackDays: 30, LeadTimeDays: 7},
	)
	require.NoError(t, err)

	err = s.RefreshInventory(context.Background())
	var transportErr *client.TransportError
	require.ErrorAs(t, err, &transportErr)

	v := s.InventoryView()
	assert.True(t, v.Stale)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "reorder_soon", v.Rows[0].Status)
}

func TestRefreshInventory_ErrorKeepsExistingData(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).Once().
		Return([]api.RawInventoryRecord{rawPosition("rye-800", 50, 20, 10)}, nil)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).Once().
		Return(nil, &client.ApplicationError{StatusCode: 500, Message: "boom"})

	s := newTestSession(t, bakehouse)
	require.NoError(t, s.RefreshInventory(context.Background()))
	require.Error(t, s.RefreshInventory(context.Background()))

	// The earlier good fetch still renders.
	v := s.InventoryView()
	require.Len(t, v.Rows, 1)
	assert.False(t, v.Stale)
}

func TestInventoryView_FilterAndSortToggle(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).Return([]api.RawInventoryRecord{
		rawPosition("rye-800", 10, 0, 1),
		rawPosition("bag-250", 30, 0, 1),
		rawPosition("crs-070", 20, 0, 1),
	}, nil)

	s := newTestSession(t, bakehouse)
	require.NoError(t, s.RefreshInventory(context.Background()))

	s.ToggleInventorySort("quantity")
	v := s.InventoryView()
	assert.Equal(t, []int{30, 20, 10}, []int{v.Rows[0].Quantity, v.Rows[1].Quantity, v.Rows[2].Quantity})

	s.ToggleInventorySort("quantity")
	v = s.InventoryView()
	assert.Equal(t, []int{10, 20, 30}, []int{v.Rows[0].Quantity, v.Rows[1].Quantity, v.Rows[2].Quantity})

	s.SetInventoryFilter("RYE")
	v = s.InventoryView()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "rye-800", v.Rows[0].Product)

	s.SetInventoryFilter("")
	v = s.InventoryView()
	assert.Len(t, v.Rows, 3)
}

func TestSubmitEdit_AppliesOnlyAfterConfirmation(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).
		Return([]api.RawInventoryRecord{rawPosition("rye-800", 50, 20, 10)}, nil)

	confirmed := rawPosition("rye-800", 90, 20, 10)
	bakehouse.On("UpdatePosition", mock.Anything, "rye-800", api.PositionEdit{CurrentQuantity: intPtr(90)}).
		Return(&confirmed, nil)

	s := newTestSession(t, bakehouse)
	require.NoError(t, s.RefreshInventory(context.Background()))

	err := s.SubmitEdit(context.Background(), "rye-800", api.PositionEdit{CurrentQuantity: intPtr(90)})
	require.NoError(t, err)
	assert.Equal(t, inventory.PhaseViewing, s.EditPhase("rye-800"))

	v := s.InventoryView()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, 90, v.Rows[0].Quantity)
	// Reclassified against the confirmed quantity: 70/10 = 7 days.
	assert.Equal(t, "reorder_soon", v.Rows[0].Status)
}

func TestSubmitEdit_FailureKeepsOldValueAndDraft(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).
		Return([]api.RawInventoryRecord{rawPosition("rye-800", 50, 20, 10)}, nil)
	bakehouse.On("UpdatePosition", mock.Anything, "rye-800", mock.Anything).
		Return(nil, &client.ApplicationError{StatusCode: 409, Message: "stock count changed upstream"})

	s := newTestSession(t, bakehouse)
	require.NoError(t, s.RefreshInventory(context.Background()))

	err := s.SubmitEdit(context.Background(), "rye-800", api.PositionEdit{CurrentQuantity: intPtr(90)})
	var appErr *client.ApplicationError
	require.ErrorAs(t, err, &appErr)

	assert.Equal(t, inventory.PhaseSaveFailed, s.EditPhase("rye-800"))
	v := s.InventoryView()
	assert.Equal(t, 50, v.Rows[0].Quantity)
}

func TestSubmitEdit_Validation(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("GetInventory", mock.Anything, 30, 7).
		Return([]api.RawInventoryRecord{rawPosition("rye-800", 50, 20, 10)}, nil)

	s := newTestSession(t, bakehouse)
	require.NoError(t, s.RefreshInventory(context.Background()))

	assert.Error(t, s.SubmitEdit(context.Background(), "rye-800", api.PositionEdit{}))
	assert.Error(t, s.SubmitEdit(context.Background(), "rye-800", api.PositionEdit{CurrentQuantity: intPtr(-1)}))
	assert.Error(t, s.SubmitEdit(context.Background(), "nope", api.PositionEdit{CurrentQuantity: intPtr(1)}))
	bakehouse.AssertNotCalled(t, "UpdatePosition", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshForecast_AggregatesAndExpands(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("GenerateForecast", mock.Anything, mock.Anything).Return(&api.ForecastResponse{
		Cached: true,
		DailyForecast: []api.RawForecastRecord{
			{SKU: "rye", DisplayName: "Rye", Date: "2026-03-02", Value: floatPtr(30)},
			{SKU: "rye", DisplayName: "Rye", Date: "2026-03-01", Value: floatPtr(10)},
			{SKU: "bag", DisplayName: "Baguette", Date: "2026-03-01", Value: floatPtr(5)},
		},
	}, nil)

	s := newTestSession(t, bakehouse)
	require.NoError(t, s.RefreshForecast(context.Background(), api.ForecastRequest{
		StartDate: "2026-03-01", EndDate: "2026-03-07", Increment: "daily",
	}))

	v := s.ForecastView()
	assert.True(t, v.Cached)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "rye", v.Rows[0].Product)
	assert.Equal(t, 40.0, v.Rows[0].Total)
	assert.Equal(t, 20.0, v.Rows[0].Average)
	assert.False(t, v.Rows[0].Expanded)

	// Expand, filter the row away and back; it stays expanded and the
	// members come back oldest first despite arrival order.
	assert.True(t, s.ToggleExpand("rye"))
	s.SetForecastFilter("baguette")
	v = s.ForecastView()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "bag", v.Rows[0].Product)

	s.SetForecastFilter("")
	v = s.ForecastView()
	require.Len(t, v.Rows, 2)
	require.True(t, v.Rows[0].Expanded)
	require.Len(t, v.Rows[0].Members, 2)
	assert.Equal(t, "2026-03-01", v.Rows[0].Members[0].Period)
	assert.Equal(t, "2026-03-02", v.Rows[0].Members[1].Period)
}

func TestHealth_Proxies(t *testing.T) {
	bakehouse := new(mockBakehouse)
	bakehouse.On("Health", mock.Anything).Return(&api.HealthStatus{Database: "connected"}, nil)

	s := newTestSession(t, bakehouse)
	status, err := s.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "connected", status.Database)
}
