package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"dropzero/backend/libs/httpx"
	"dropzero/backend/services/consumption-service/internal/analytics"
	"dropzero/backend/services/consumption-service/internal/models"
	"dropzero/backend/services/consumption-service/internal/service"
)

// ReadingsService is the per-user API behind the readings routes.
type ReadingsService interface {
	Dashboard(ctx context.Context, userID int64) (models.DashboardStats, error)
	History(ctx context.Context, userID int64, page, limit int) (models.HistoryPage, error)
	Chart(ctx context.Context, userID int64, timeframe string) ([]models.ChartPoint, error)
	Advice(ctx context.Context, userID int64) ([]models.AdviceItem, error)
	Export(ctx context.Context, userID int64, w io.Writer) error
	Submit(ctx context.Context, in service.SubmitReadingInput) (*models.WeeklyReading, error)
}

// NewDashboardHandler returns GET /api/readings/dashboard/{userId} handler.
func NewDashboardHandler(svc ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authorizedUser(w, r)
		if !ok {
			return
		}
		stats, err := svc.Dashboard(r.Context(), userID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// NewHistoryHandler returns GET /api/readings/history/{userId} handler.
func NewHistoryHandler(svc ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authorizedUser(w, r)
		if !ok {
			return
		}
		page := httpx.QueryInt(r, "page", analytics.DefaultPage)
		limit := httpx.QueryInt(r, "limit", analytics.DefaultLimit)

		history, err := svc.History(r.Context(), userID, page, limit)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

// NewChartHandler returns GET /api/readings/chart/{userId} handler.
func NewChartHandler(svc ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authorizedUser(w, r)
		if !ok {
			return
		}
		timeframe := r.URL.Query().Get("timeframe")
		if timeframe == "" {
			timeframe = analytics.Timeframe90Days
		}

		points, err := svc.Chart(r.Context(), userID, timeframe)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, points)
	}
}

// NewAdviceHandler returns GET /api/readings/advice/{userId} handler.
func NewAdviceHandler(svc ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authorizedUser(w, r)
		if !ok {
			return
		}
		items, err := svc.Advice(r.Context(), userID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// NewExportHandler returns GET /api/readings/export/{userId} handler.
func NewExportHandler(svc ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := authorizedUser(w, r)
		if !ok {
			return
		}

		// buffered so a failed query never reaches the client as a partial file
		var buf bytes.Buffer
		if err := svc.Export(r.Context(), userID, &buf); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="readings-%d.csv"`, userID))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logger.Warn("export write failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
}

// NewSubmitReadingHandler returns POST /api/readings handler.
func NewSubmitReadingHandler(svc ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.SubmitReadingInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		claims, _ := httpx.ClaimsFromContext(r.Context())
		if in.UserID == 0 && claims != nil {
			in.UserID = claims.UserID
		}
		if err := service.Authorize(claims, in.UserID); err != nil {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		reading, err := svc.Submit(r.Context(), in)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, reading)
	}
}
