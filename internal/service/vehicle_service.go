package service

import (
	"context"
	"errors"
	"fmt"

	"celltrack-api/internal/models"
	"celltrack-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var (
	// ErrVehicleNotFound is returned for device ids that were never registered.
	ErrVehicleNotFound = errors.New("service: vehicle not found")
	// ErrInvalidVehicle is returned for registrations that fail validation.
	ErrInvalidVehicle = errors.New("service: invalid vehicle")
)

const MaxVehicleListLimit = 1000

// VehicleStore persists the vehicle registry.
type VehicleStore interface {
	UpsertVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, bool, error)
	GetVehicle(ctx context.Context, deviceID string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, limit int) ([]models.Vehicle, error)
}

// VehicleService manages registered vehicles.
type VehicleService struct {
	store    VehicleStore
	logger   zerolog.Logger
	validate *validator.Validate
}

func NewVehicleService(store VehicleStore, logger zerolog.Logger) *VehicleService {
	return &VehicleService{store: store, logger: logger, validate: validator.New()}
}

// RegisterVehicle creates the vehicle or updates an existing registration with the same device id.
// created reports which of the two happened.
func (s *VehicleService) RegisterVehicle(ctx context.Context, v models.Vehicle) (vehicle *models.Vehicle, created bool, err error) {
	if v.Status == "" {
		v.Status = models.VehicleStatusActive
	}
	if err := s.validate.Struct(v); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidVehicle, err)
	}

	vehicle, created, err = s.store.UpsertVehicle(ctx, v)
	if err != nil {
		return nil, false, fmt.Errorf("service: failed to register vehicle: %w", err)
	}

	s.logger.Info().
		Str("device_id", vehicle.DeviceID).
		Bool("created", created).
		Msg("vehicle registered")
	return vehicle, created, nil
}

// GetVehicle returns one registered vehicle.
func (s *VehicleService) GetVehicle(ctx context.Context, deviceID string) (*models.Vehicle, error) {
	v, err := s.store.GetVehicle(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("service: failed to get vehicle: %w", err)
	}
	return v, nil
}

// ListVehicles returns every registered vehicle, up to MaxVehicleListLimit.
func (s *VehicleService) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, err := s.store.ListVehicles(ctx, MaxVehicleListLimit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list vehicles: %w", err)
	}
	return vehicles, nil
}
