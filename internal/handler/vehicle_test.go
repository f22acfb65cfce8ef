package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"celltrack-api/internal/models"
	"celltrack-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVehicleService is a mock implementation of the VehicleService interface
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) RegisterVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, bool, error) {
	args := m.Called(ctx, v)
	out, _ := args.Get(0).(*models.Vehicle)
	return out, args.Bool(1), args.Error(2)
}

func (m *MockVehicleService) GetVehicle(ctx context.Context, deviceID string) (*models.Vehicle, error) {
	args := m.Called(ctx, deviceID)
	v, _ := args.Get(0).(*models.Vehicle)
	return v, args.Error(1)
}

func (m *MockVehicleService) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	args := m.Called(ctx)
	vs, _ := args.Get(0).([]models.Vehicle)
	return vs, args.Error(1)
}

func TestVehicleHandler_RegisterVehicle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bus := models.Vehicle{DeviceID: "bus-42", RouteID: "route-7", Status: models.VehicleStatusActive, CreatedAt: reportTS}

	tests := []struct {
		name           string
		body           interface{}
		callService    bool
		created        bool
		mockError      error
		expectedStatus int
		expectedState  string
	}{
		{name: "malformed json", body: "{not json", expectedStatus: http.StatusBadRequest},
		{name: "missing device id", body: map[string]interface{}{"route_id": "route-7"}, expectedStatus: http.StatusBadRequest},
		{
			name:           "created",
			body:           map[string]interface{}{"device_id": "bus-42", "route_id": "route-7"},
			callService:    true,
			created:        true,
			expectedStatus: http.StatusCreated,
			expectedState:  "created",
		},
		{
			name:           "updated",
			body:           map[string]interface{}{"device_id": "bus-42", "route_id": "route-7"},
			callService:    true,
			expectedStatus: http.StatusOK,
			expectedState:  "updated",
		},
		{
			name:           "rejected by service",
			body:           map[string]interface{}{"device_id": "bus-42", "route_id": "route-7"},
			callService:    true,
			mockError:      service.ErrInvalidVehicle,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "store down",
			body:           map[string]interface{}{"device_id": "bus-42", "route_id": "route-7"},
			callService:    true,
			mockError:      assert.AnError,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockVehicleService)
			handler := NewVehicleHandler(mockSvc)
			if tt.callService {
				var ret *models.Vehicle
				if tt.mockError == nil {
					ret = &bus
				}
				mockSvc.On("RegisterVehicle", mock.Anything, models.Vehicle{DeviceID: "bus-42", RouteID: "route-7"}).
					Return(ret, tt.created, tt.mockError).Once()
			}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = jsonRequest(t, http.MethodPost, "/api/v1/vehicles", tt.body)

			handler.RegisterVehicle(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedState != "" {
				body := decodeBody(t, w)
				assert.Equal(t, tt.expectedState, body["status"])
				assert.Equal(t, "bus-42", body["device_id"])
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestVehicleHandler_GetVehicle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		deviceID       string
		mockVehicle    *models.Vehicle
		mockError      error
		expectedStatus int
	}{
		{name: "found", deviceID: "bus-42", mockVehicle: &models.Vehicle{DeviceID: "bus-42", Status: "active"}, expectedStatus: http.StatusOK},
		{name: "unknown", deviceID: "bus-404", mockError: service.ErrVehicleNotFound, expectedStatus: http.StatusNotFound},
		{name: "store error", deviceID: "bus-500", mockError: assert.AnError, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockVehicleService)
			handler := NewVehicleHandler(mockSvc)
			mockSvc.On("GetVehicle", mock.Anything, tt.deviceID).Return(tt.mockVehicle, tt.mockError).Once()

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+tt.deviceID, nil)
			c.Params = gin.Params{{Key: "device_id", Value: tt.deviceID}}

			handler.GetVehicle(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "bus-42", decodeBody(t, w)["device_id"])
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestVehicleHandler_ListVehicles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockVehicleService)
	handler := NewVehicleHandler(mockSvc)
	mockSvc.On("ListVehicles", mock.Anything).Return([]models.Vehicle{{DeviceID: "bus-1"}, {DeviceID: "bus-2"}}, nil).Once()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/vehicles", nil)

	handler.ListVehicles(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["vehicles"], 2)
	mockSvc.AssertExpectations(t)
}
