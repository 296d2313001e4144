package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"dropzero/backend/services/consumption-service/internal/analytics"
	"dropzero/backend/services/consumption-service/internal/cache"
	"dropzero/backend/services/consumption-service/internal/models"
	"dropzero/backend/services/consumption-service/internal/repository"
)

// LatestReadings exposes the system-wide latest reading per meter.
type LatestReadings interface {
	LatestPerMeter(ctx context.Context) ([]models.WeeklyReading, error)
}

// MeterDirectory defines meter storage used by the admin views.
type MeterDirectory interface {
	Create(ctx context.Context, m *models.Meter) error
	ListActive(ctx context.Context) ([]models.Meter, error)
	ListByIDs(ctx context.Context, ids []string) (map[string]models.Meter, error)
	CountActive(ctx context.Context) (int, error)
}

// RegisterMeterInput is an admin meter registration.
type RegisterMeterInput struct {
	ID        string   `json:"id"`
	UserID    int64    `json:"userId"`
	Type      string   `json:"type"`
	Zone      string   `json:"zone"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// AdminService builds the municipality-wide views.
type AdminService struct {
	readings LatestReadings
	meters   MeterDirectory
	users    UserLookup
	cache    AggregateCache
	clock    clockwork.Clock
	logger   *zap.Logger
}

// NewAdminService builds AdminService. aggregates may be nil.
func NewAdminService(readings LatestReadings, meters MeterDirectory, users UserLookup, aggregates AggregateCache, clock clockwork.Clock, logger *zap.Logger) *AdminService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AdminService{
		readings: readings,
		meters:   meters,
		users:    users,
		cache:    aggregates,
		clock:    clock,
		logger:   logger,
	}
}

// ZoneMap returns the per-district rollup in fixed order.
func (s *AdminService) ZoneMap(ctx context.Context) (models.ZoneReport, error) {
	return cached(ctx, s.cache, s.logger, cache.KeyZoneMap, func(ctx context.Context) (models.ZoneReport, error) {
		latest, err := s.readings.LatestPerMeter(ctx)
		if err != nil {
			return models.ZoneReport{}, err
		}
		meters, err := s.meters.ListActive(ctx)
		if err != nil {
			return models.ZoneReport{}, err
		}

		report := analytics.SummarizeZones(latest, meters)
		if report.Unattributed > 0 {
			s.logger.Warn("latest readings not attributed to any zone",
				zap.Int("unattributed", report.Unattributed),
				zap.Int("latest_readings", len(latest)),
			)
		}
		return report, nil
	})
}

// Alerts returns the ranked anomaly feed.
func (s *AdminService) Alerts(ctx context.Context) ([]models.Alert, error) {
	return cached(ctx, s.cache, s.logger, cache.KeyAlerts, func(ctx context.Context) ([]models.Alert, error) {
		latest, err := s.readings.LatestPerMeter(ctx)
		if err != nil {
			return nil, err
		}

		anomalous := make([]models.WeeklyReading, 0)
		for _, r := range latest {
			if analytics.IsAnomalous(r.VolumeM3) {
				anomalous = append(anomalous, r)
			}
		}
		if len(anomalous) == 0 {
			return []models.Alert{}, nil
		}

		meters, err := s.meters.ListByIDs(ctx, analytics.AnomalousMeterIDs(anomalous))
		if err != nil {
			return nil, err
		}

		users := map[int64]models.UserSummary{}
		if s.users != nil {
			users, err = s.users.ByIDs(ctx, userIDs(anomalous))
			if err != nil {
				return nil, err
			}
		}

		return analytics.RankAlerts(anomalous, meters, users), nil
	})
}

// Stats returns the municipality headline figures.
func (s *AdminService) Stats(ctx context.Context) (models.TerritorialStats, error) {
	return cached(ctx, s.cache, s.logger, cache.KeyStats, func(ctx context.Context) (models.TerritorialStats, error) {
		latest, err := s.readings.LatestPerMeter(ctx)
		if err != nil {
			return models.TerritorialStats{}, err
		}
		active, err := s.meters.CountActive(ctx)
		if err != nil {
			return models.TerritorialStats{}, err
		}
		return analytics.Territorial(latest, active), nil
	})
}

// RegisterMeter validates and stores a new active meter.
func (s *AdminService) RegisterMeter(ctx context.Context, in RegisterMeterInput) (*models.Meter, error) {
	if in.UserID <= 0 {
		return nil, invalid(ErrInvalidInput, "userId is required")
	}
	zone, err := models.ParseZone(in.Zone)
	if err != nil {
		return nil, invalid(ErrUnknownZone, fmt.Sprintf("unknown zone %q", in.Zone))
	}
	meterType, err := models.ParseMeterType(in.Type)
	if err != nil {
		return nil, invalid(ErrInvalidInput, err.Error())
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = newMeterID()
	}

	meter := &models.Meter{
		ID:          id,
		UserID:      in.UserID,
		Type:        meterType,
		Status:      models.MeterActive,
		Zone:        zone,
		Location:    strings.TrimSpace(in.Location),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		InstalledAt: s.clock.Now().UTC(),
	}
	if err := s.meters.Create(ctx, meter); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMeterExists
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("aggregate cache invalidation failed", zap.Error(err))
		}
	}
	s.logger.Info("meter registered",
		zap.String("meter_id", meter.ID),
		zap.Int64("user_id", meter.UserID),
		zap.String("zone", string(meter.Zone)),
	)
	return meter, nil
}

func validateCoordinates(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return invalid(ErrInvalidInput, "latitude and longitude must be given together")
	}
	if lat == nil {
		return nil
	}
	if math.Abs(*lat) > 90 || math.Abs(*lon) > 180 {
		return invalid(ErrInvalidInput, "coordinates out of range")
	}
	return nil
}

// newMeterID is swapped in tests.
var newMeterID = func() string {
	return "SN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func userIDs(readings []models.WeeklyReading) []int64 {
	seen := make(map[int64]struct{}, len(readings))
	ids := make([]int64, 0, len(readings))
	for _, r := range readings {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}
	return ids
}
