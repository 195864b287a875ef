package handler

import (
	"encoding/json"
	"net/http"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/JiaXinLow/period-poverty-api/internal/service"
)

// CostEstimateRequest is the POST body for cost estimation. When Lines
// is empty the stored basket is used.
type CostEstimateRequest struct {
	Lines       []models.BasketLine `json:"lines"`
	ApplyYoYCPI bool                `json:"apply_yoy_cpi"`
}

// InflationTrend handles GET /v1/analytics/inflation-trend
func (h *Handler) InflationTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trend, err := h.analytics.InflationTrend(q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, trend)
}

// CostEstimate handles POST /v1/analytics/cost-estimate
func (h *Handler) CostEstimate(w http.ResponseWriter, r *http.Request) {
	var payload CostEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	for i := range payload.Lines {
		if err := validateBasketLine(&payload.Lines[i]); err != nil {
			h.writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	estimate, err := h.analytics.EstimateCost(payload.Lines, payload.ApplyYoYCPI)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, estimate)
}

// CostBurden handles GET /v1/analytics/cost-burden
func (h *Handler) CostBurden(w http.ResponseWriter, r *http.Request) {
	year, err := requiredIntQuery(r, "year", service.MinYear, service.MaxYear)
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	percentile, err := requiredIntQuery(r, "percentile", service.MinPercentile, service.MaxPercentile)
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	burden, err := h.analytics.CostBurden(year, percentile)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, burden)
}

// SeverityScore handles GET /v1/analytics/severity-score. Defaults
// match the UK datasets: hygiene year 2018, percentile 20.
func (h *Handler) SeverityScore(w http.ResponseWriter, r *http.Request) {
	year, err := optionalIntQuery(r, "year", 2018, service.MinYear, service.MaxYear)
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	percentile, err := optionalIntQuery(r, "percentile", 20, service.MinPercentile, service.MaxPercentile)
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	score, err := h.analytics.SeverityScore(year, percentile)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, score)
}
