package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"dropzero/backend/services/consumption-service/internal/models"
	"dropzero/backend/services/consumption-service/internal/repository"
)

// Default two-part tariff used when no active tariff is stored.
const (
	DefaultFixedWeeklyCharge = 2.31
	DefaultRatePerM3         = 2.10
)

// TariffRepository defines the tariff lookup used by the service.
type TariffRepository interface {
	GetActive(ctx context.Context) (*models.Tariff, error)
}

// TariffService provides tariff lookups with fallback.
type TariffService struct {
	repo          TariffRepository
	defaultTariff models.Tariff
	logger        *zap.Logger
}

// NewTariffService returns service instance.
func NewTariffService(repo TariffRepository, fixedWeeklyCharge, ratePerM3 float64, logger *zap.Logger) *TariffService {
	return &TariffService{
		repo: repo,
		defaultTariff: models.Tariff{
			Name:              "Default",
			FixedWeeklyCharge: fixedWeeklyCharge,
			RatePerM3:         ratePerM3,
			IsActive:          true,
		},
		logger: logger,
	}
}

// ActiveTariff returns the stored active tariff, or the default when none is
// stored. Other storage errors are returned as is.
func (s *TariffService) ActiveTariff(ctx context.Context) (*models.Tariff, error) {
	fallback := s.defaultTariff
	if s.repo == nil {
		if fallback.RatePerM3 <= 0 {
			return nil, errors.New("tariff: no tariff configured")
		}
		return &fallback, nil
	}

	tariff, err := s.repo.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) || fallback.RatePerM3 <= 0 {
			return nil, err
		}
		s.logger.Debug("no active tariff stored, using default")
		return &fallback, nil
	}
	return tariff, nil
}
