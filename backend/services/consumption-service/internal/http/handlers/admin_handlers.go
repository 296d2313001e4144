package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"dropzero/backend/services/consumption-service/internal/models"
	"dropzero/backend/services/consumption-service/internal/service"
)

// AdminService is the municipality-wide API behind the admin routes.
type AdminService interface {
	ZoneMap(ctx context.Context) (models.ZoneReport, error)
	Alerts(ctx context.Context) ([]models.Alert, error)
	Stats(ctx context.Context) (models.TerritorialStats, error)
	RegisterMeter(ctx context.Context, in service.RegisterMeterInput) (*models.Meter, error)
}

const unattributedHeader = "X-Unattributed-Readings"

// NewZoneMapHandler returns GET /api/admin/map handler.
func NewZoneMapHandler(svc AdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.ZoneMap(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		w.Header().Set(unattributedHeader, strconv.Itoa(report.Unattributed))
		writeJSON(w, http.StatusOK, report.Zones)
	}
}

// NewAlertsHandler returns GET /api/admin/alerts handler.
func NewAlertsHandler(svc AdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts, err := svc.Alerts(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, alerts)
	}
}

// NewStatsHandler returns GET /api/admin/stats handler.
func NewStatsHandler(svc AdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// NewRegisterMeterHandler returns POST /api/admin/meters handler.
func NewRegisterMeterHandler(svc AdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.RegisterMeterInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		meter, err := svc.RegisterMeter(r.Context(), in)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, meter)
	}
}
