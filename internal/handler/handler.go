package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JiaXinLow/period-poverty-api/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	analytics *service.AnalyticsService
	basket    *service.BasketService
	log       *logrus.Logger
}

func NewHandler(analytics *service.AnalyticsService, basket *service.BasketService, log *logrus.Logger) *Handler {
	return &Handler{analytics: analytics, basket: basket, log: log}
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeDetail(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps the typed failure conditions onto status
// codes; anything unexpected becomes a 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateFormat),
		errors.Is(err, service.ErrNoBasketData),
		errors.Is(err, service.ErrNoPriceData):
		h.writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoWelfareData),
		errors.Is(err, service.ErrNoHygieneData),
		errors.Is(err, service.ErrBasketLineNotFound):
		h.writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateBasketLine):
		h.writeDetail(w, http.StatusConflict, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		h.writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

// requiredIntQuery parses a mandatory integer query parameter within
// [min, max].
func requiredIntQuery(r *http.Request, name string, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	return boundedInt(raw, name, min, max)
}

// optionalIntQuery parses an integer query parameter within [min, max],
// falling back to def when absent.
func optionalIntQuery(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return boundedInt(raw, name, min, max)
}

func boundedInt(raw, name string, min, max int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be between %d and %d", name, min, max)
	}
	return v, nil
}
