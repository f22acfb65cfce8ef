package service

import (
	"context"
	"strings"
	"testing"

	"celltrack-api/internal/models"
	"celltrack-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVehicleStore is a mock implementation of the VehicleStore interface
type MockVehicleStore struct {
	mock.Mock
}

func (m *MockVehicleStore) UpsertVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, bool, error) {
	args := m.Called(ctx, v)
	out, _ := args.Get(0).(*models.Vehicle)
	return out, args.Bool(1), args.Error(2)
}

func (m *MockVehicleStore) GetVehicle(ctx context.Context, deviceID string) (*models.Vehicle, error) {
	args := m.Called(ctx, deviceID)
	v, _ := args.Get(0).(*models.Vehicle)
	return v, args.Error(1)
}

func (m *MockVehicleStore) ListVehicles(ctx context.Context, limit int) ([]models.Vehicle, error) {
	args := m.Called(ctx, limit)
	vs, _ := args.Get(0).([]models.Vehicle)
	return vs, args.Error(1)
}

func TestVehicleService_RegisterVehicle(t *testing.T) {
	tests := []struct {
		name          string
		vehicle       models.Vehicle
		stored        models.Vehicle
		created       bool
		storeErr      error
		callStore     bool
		expectInvalid bool
		expectAnErr   bool
	}{
		{
			name:      "new vehicle defaults to active",
			vehicle:   models.Vehicle{DeviceID: "bus-42", RouteID: "route-7"},
			stored:    models.Vehicle{DeviceID: "bus-42", RouteID: "route-7", Status: models.VehicleStatusActive},
			created:   true,
			callStore: true,
		},
		{
			name:      "existing vehicle keeps given status",
			vehicle:   models.Vehicle{DeviceID: "bus-42", Status: "maintenance"},
			stored:    models.Vehicle{DeviceID: "bus-42", Status: "maintenance"},
			callStore: true,
		},
		{
			name:          "missing device id",
			vehicle:       models.Vehicle{RouteID: "route-7"},
			expectInvalid: true,
		},
		{
			name:          "status too long",
			vehicle:       models.Vehicle{DeviceID: "bus-42", Status: strings.Repeat("x", 33)},
			expectInvalid: true,
		},
		{
			name:        "store failure",
			vehicle:     models.Vehicle{DeviceID: "bus-42"},
			stored:      models.Vehicle{DeviceID: "bus-42", Status: models.VehicleStatusActive},
			storeErr:    assert.AnError,
			callStore:   true,
			expectAnErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockVehicleStore)
			svc := NewVehicleService(store, zerolog.Nop())
			if tt.callStore {
				var ret *models.Vehicle
				if tt.storeErr == nil {
					ret = &tt.stored
				}
				store.On("UpsertVehicle", mock.Anything, tt.stored).Return(ret, tt.created, tt.storeErr).Once()
			}

			got, created, err := svc.RegisterVehicle(context.Background(), tt.vehicle)

			switch {
			case tt.expectInvalid:
				assert.ErrorIs(t, err, ErrInvalidVehicle)
				store.AssertNotCalled(t, "UpsertVehicle", mock.Anything, mock.Anything)
			case tt.expectAnErr:
				assert.Error(t, err)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.stored, *got)
				assert.Equal(t, tt.created, created)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestVehicleService_GetVehicle(t *testing.T) {
	store := new(MockVehicleStore)
	svc := NewVehicleService(store, zerolog.Nop())
	bus := &models.Vehicle{DeviceID: "bus-42", Status: models.VehicleStatusActive}
	store.On("GetVehicle", mock.Anything, "bus-42").Return(bus, nil).Once()
	store.On("GetVehicle", mock.Anything, "bus-404").Return(nil, repository.ErrNotFound).Once()
	store.On("GetVehicle", mock.Anything, "bus-500").Return(nil, assert.AnError).Once()

	got, err := svc.GetVehicle(context.Background(), "bus-42")
	require.NoError(t, err)
	assert.Equal(t, bus, got)

	_, err = svc.GetVehicle(context.Background(), "bus-404")
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = svc.GetVehicle(context.Background(), "bus-500")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrVehicleNotFound)

	store.AssertExpectations(t)
}

func TestVehicleService_ListVehicles(t *testing.T) {
	store := new(MockVehicleStore)
	svc := NewVehicleService(store, zerolog.Nop())
	vehicles := []models.Vehicle{{DeviceID: "bus-1"}, {DeviceID: "bus-2"}}
	store.On("ListVehicles", mock.Anything, MaxVehicleListLimit).Return(vehicles, nil).Once()

	got, err := svc.ListVehicles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, vehicles, got)
	store.AssertExpectations(t)
}
