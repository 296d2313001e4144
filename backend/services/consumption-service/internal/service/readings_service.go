package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"dropzero/backend/libs/metrics"
	"dropzero/backend/services/consumption-service/internal/analytics"
	"dropzero/backend/services/consumption-service/internal/models"
	"dropzero/backend/services/consumption-service/internal/repository"
)

// newReadingID is swapped in tests.
var newReadingID = func() string {
	return "MN-" + uuid.NewString()
}

// ReadingStore defines the reading persistence used by the service.
type ReadingStore interface {
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.WeeklyReading, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	ForEachByUser(ctx context.Context, userID int64, fn func(models.WeeklyReading) error) error
	AppendManual(ctx context.Context, userID int64, build repository.BuildReading) (*models.WeeklyReading, error)
}

// UserLookup resolves user display fields.
type UserLookup interface {
	ByIDs(ctx context.Context, ids []int64) (map[int64]models.UserSummary, error)
}

// AlertPublisher pushes alerts to live subscribers.
type AlertPublisher interface {
	Publish(alert models.Alert)
}

// SubmitReadingInput is a manual reading submission. Pointers distinguish
// missing fields from zero values.
type SubmitReadingInput struct {
	UserID       int64      `json:"userId"`
	ReadingValue *float64   `json:"readingValue"`
	Date         *time.Time `json:"date"`
}

// ReadingsService serves the per-user consumption views and ingests manual
// readings.
type ReadingsService struct {
	store     ReadingStore
	tariffs   *TariffService
	users     UserLookup
	cache     AggregateCache
	publisher AlertPublisher
	metrics   *metrics.Metrics
	clock     clockwork.Clock
	tips      analytics.TipPicker
	logger    *zap.Logger
}

// ReadingsDeps groups the optional collaborators of ReadingsService.
type ReadingsDeps struct {
	Users     UserLookup
	Cache     AggregateCache
	Publisher AlertPublisher
	Metrics   *metrics.Metrics
	Clock     clockwork.Clock
	Tips      analytics.TipPicker
}

// NewReadingsService builds ReadingsService.
func NewReadingsService(store ReadingStore, tariffs *TariffService, deps ReadingsDeps, logger *zap.Logger) *ReadingsService {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Tips == nil {
		deps.Tips = analytics.ReadingTips
	}
	return &ReadingsService{
		store:     store,
		tariffs:   tariffs,
		users:     deps.Users,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
		tips:      deps.Tips,
		logger:    logger,
	}
}

// Dashboard returns the personal consumption summary.
func (s *ReadingsService) Dashboard(ctx context.Context, userID int64) (models.DashboardStats, error) {
	readings, err := s.store.ListByUser(ctx, userID, analytics.DashboardWindow, 0)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return analytics.Dashboard(readings, s.tips), nil
}

// History returns one page of readings, newest first.
func (s *ReadingsService) History(ctx context.Context, userID int64, page, limit int) (models.HistoryPage, error) {
	page, limit, offset := analytics.Paginate(page, limit)

	readings, err := s.store.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return models.HistoryPage{}, err
	}
	total, err := s.store.CountByUser(ctx, userID)
	if err != nil {
		return models.HistoryPage{}, err
	}

	return models.HistoryPage{
		Readings:      readings,
		CurrentPage:   page,
		TotalPages:    analytics.TotalPages(total, limit),
		TotalReadings: total,
	}, nil
}

// Chart returns chronological weekly points for timeframe.
func (s *ReadingsService) Chart(ctx context.Context, userID int64, timeframe string) ([]models.ChartPoint, error) {
	readings, err := s.store.ListByUser(ctx, userID, analytics.ChartLimit(timeframe), 0)
	if err != nil {
		return nil, err
	}
	return analytics.Chart(readings), nil
}

// Advice returns the advice list for the current date.
func (s *ReadingsService) Advice(ctx context.Context, userID int64) ([]models.AdviceItem, error) {
	readings, err := s.store.ListByUser(ctx, userID, analytics.AdviceWindow, 0)
	if err != nil {
		return nil, err
	}
	return analytics.Advice(readings, s.clock.Now()), nil
}

var exportHeader = []string{
	"week_start", "week_end", "previous_reading", "current_reading",
	"liters", "m3", "cost", "method", "quality",
}

// Export writes every reading of the user to w as CSV, oldest first.
func (s *ReadingsService) Export(ctx context.Context, userID int64, w io.Writer) error {
	out := csv.NewWriter(w)
	if err := out.Write(exportHeader); err != nil {
		return err
	}

	err := s.store.ForEachByUser(ctx, userID, func(r models.WeeklyReading) error {
		return out.Write([]string{
			r.WeekStartDate.Format(time.DateOnly),
			r.WeekEndDate.Format(time.DateOnly),
			formatFloat(r.PreviousReading),
			formatFloat(r.CurrentReading),
			strconv.FormatInt(r.VolumeConsumed, 10),
			strconv.FormatFloat(r.VolumeM3, 'f', 2, 64),
			strconv.FormatFloat(r.Cost, 'f', 2, 64),
			string(r.Method),
			string(r.Quality),
		})
	})
	if err != nil {
		return err
	}

	out.Flush()
	return out.Error()
}

// Submit validates and stores a manual reading. The active meter row stays
// locked from the baseline lookup to the insert.
func (s *ReadingsService) Submit(ctx context.Context, in SubmitReadingInput) (*models.WeeklyReading, error) {
	if in.UserID <= 0 {
		s.reject("invalid")
		return nil, invalid(ErrInvalidInput, "userId is required")
	}
	if in.Date == nil || in.Date.IsZero() || in.ReadingValue == nil {
		s.reject("invalid")
		return nil, invalid(ErrInvalidInput, "date and readingValue are required")
	}
	if *in.ReadingValue < 0 {
		s.reject("invalid")
		return nil, invalid(ErrInvalidInput, "readingValue must not be negative")
	}

	tariff, err := s.tariffs.ActiveTariff(ctx)
	if err != nil {
		s.reject("store")
		return nil, fmt.Errorf("resolve tariff: %w", err)
	}

	value := *in.ReadingValue
	date := in.Date.UTC()
	var meter models.Meter

	created, err := s.store.AppendManual(ctx, in.UserID, func(m models.Meter, last *models.WeeklyReading) (*models.WeeklyReading, error) {
		meter = m

		previous := 0.0
		start := date.AddDate(0, 0, -7)
		if last != nil {
			previous = last.CurrentReading
			start = last.WeekEndDate
		}
		if value < previous {
			return nil, invalid(ErrReadingTooLow, fmt.Sprintf("new reading cannot be lower than previous (%s)", formatFloat(previous)))
		}

		consumed := analytics.Consumed(previous, value)
		cost := analytics.Cost(consumed, *tariff)
		return &models.WeeklyReading{
			ID:              newReadingID(),
			MeterID:         m.ID,
			UserID:          in.UserID,
			WeekStartDate:   start,
			WeekEndDate:     date,
			ReadingDate:     s.clock.Now().UTC(),
			PreviousReading: previous,
			CurrentReading:  value,
			VolumeConsumed:  consumed.Liters,
			VolumeM3:        consumed.M3,
			Method:          models.MethodManual,
			Quality:         models.QualityValid,
			Cost:            cost.Total,
			CostBreakdown:   &cost,
		}, nil
	})
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.reject("no_meter")
			return nil, ErrNoActiveMeter
		case errors.As(err, &verr):
			s.reject("too_low")
			return nil, err
		default:
			s.reject("store")
			return nil, fmt.Errorf("store reading: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.ReadingsIngested.WithLabelValues(string(created.Method)).Inc()
	}
	s.logger.Info("reading stored",
		zap.String("reading_id", created.ID),
		zap.String("meter_id", created.MeterID),
		zap.Int64("user_id", created.UserID),
		zap.Float64("volume_m3", created.VolumeM3),
	)

	s.afterIngest(ctx, created, meter)
	return created, nil
}

// afterIngest refreshes derived state once a reading is committed. Failures
// here never undo the ingestion.
func (s *ReadingsService) afterIngest(ctx context.Context, reading *models.WeeklyReading, meter models.Meter) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("aggregate cache invalidation failed", zap.Error(err))
		}
	}

	if s.publisher == nil || !analytics.IsAnomalous(reading.VolumeM3) {
		return
	}

	var user *models.UserSummary
	if s.users != nil {
		users, err := s.users.ByIDs(ctx, []int64{reading.UserID})
		if err != nil {
			s.logger.Warn("alert user lookup failed", zap.Int64("user_id", reading.UserID), zap.Error(err))
		} else if u, ok := users[reading.UserID]; ok {
			user = &u
		}
	}
	s.publisher.Publish(analytics.NewAlert(*reading, &meter, user))
}

func (s *ReadingsService) reject(reason string) {
	if s.metrics != nil {
		s.metrics.IngestionRejected.WithLabelValues(reason).Inc()
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
