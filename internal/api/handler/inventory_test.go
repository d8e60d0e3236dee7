package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/application"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/venue"
)

// testValidator はテスト用の軽量バリデーター
// パッケージapiはこのパッケージを参照するため、ここでは直接validatorを組む
type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewTestEcho はテスト用のEchoインスタンスを作成する
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

// MockInventoryService はInventoryServiceInterfaceのモック
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Snapshot(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockInventoryService) CheckAvailability(ctx context.Context, req application.SeatRequest) bool {
	args := m.Called(ctx, req)
	return args.Bool(0)
}

func (m *MockInventoryService) CountAvailable(ctx context.Context, category, zone string) (int, error) {
	args := m.Called(ctx, category, zone)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) CountsByStatus() map[seat.Status]int {
	args := m.Called()
	return args.Get(0).(map[seat.Status]int)
}

// MockSessionCounter はSessionCounterのモック
type MockSessionCounter struct {
	mock.Mock
}

func (m *MockSessionCounter) Count() int {
	args := m.Called()
	return args.Int(0)
}

func TestInventoryHandler_CheckSeat(t *testing.T) {
	e := NewTestEcho()

	t.Run("空席ならavailable=true", func(t *testing.T) {
		mockService := new(MockInventoryService)
		mockService.On("CheckAvailability", mock.Anything, application.SeatRequest{
			Category: "VIP", Zone: "A", Row: 2, Seat: 2,
		}).Return(true)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/seats/availability?category=VIP&zone=A&row=2&seat=2", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewInventoryHandler(mockService, nil)
		require.NoError(t, h.CheckSeat(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AvailabilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Available)
		assert.Equal(t, "VIP", resp.Category)
		assert.Equal(t, "A", resp.Zone)

		mockService.AssertExpectations(t)
	})

	t.Run("必須パラメータ欠落は400", func(t *testing.T) {
		mockService := new(MockInventoryService)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/seats/availability?category=VIP", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewInventoryHandler(mockService, nil)
		err := h.CheckSeat(c)
		require.Error(t, err)

		mockService.AssertNotCalled(t, "CheckAvailability")
	})
}

func TestInventoryHandler_CountAvailable(t *testing.T) {
	e := NewTestEcho()

	t.Run("空席数を返す", func(t *testing.T) {
		mockService := new(MockInventoryService)
		mockService.On("CountAvailable", mock.Anything, "Regular", "B").Return(34, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/zones/:zone/categories/:category/available/count")
		c.SetParamNames("zone", "category")
		c.SetParamValues("B", "Regular")

		h := NewInventoryHandler(mockService, nil)
		require.NoError(t, h.CountAvailable(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"count": 34}`, rec.Body.String())

		mockService.AssertExpectations(t)
	})

	t.Run("未知のゾーンは404", func(t *testing.T) {
		mockService := new(MockInventoryService)
		mockService.On("CountAvailable", mock.Anything, "VIP", "Z").Return(0, venue.ErrZoneNotFound)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/zones/:zone/categories/:category/available/count")
		c.SetParamNames("zone", "category")
		c.SetParamValues("Z", "VIP")

		h := NewInventoryHandler(mockService, nil)
		require.NoError(t, h.CountAvailable(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInventoryHandler_GetStructure(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockInventoryService)
	mockService.On("Snapshot", mock.Anything).Return("Zona: A\n  Categoría: VIP\n")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stadium/structure", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewInventoryHandler(mockService, nil)
	require.NoError(t, h.GetStructure(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Zona: A")
	assert.Contains(t, rec.Body.String(), "Categoría: VIP")
}

func TestInventoryHandler_Summary(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockInventoryService)
	mockService.On("CountsByStatus").Return(map[seat.Status]int{
		seat.StatusLibre:               400,
		seat.StatusReservado:           8,
		seat.StatusReservadoPorUsuario: 4,
		seat.StatusComprado:            8,
	})

	mockSessions := new(MockSessionCounter)
	mockSessions.On("Count").Return(3)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stadium/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewInventoryHandler(mockService, mockSessions)
	require.NoError(t, h.Summary(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 400, resp.Seats["libre"])
	assert.Equal(t, 3, resp.Sessions)

	mockService.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}
