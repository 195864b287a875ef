package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/JiaXinLow/period-poverty-api/internal/service"
	"github.com/gorilla/mux"
)

// priceIndexRow serializes a price sample with an ISO date.
type priceIndexRow struct {
	Date         string   `json:"date"`
	CPIIndex     float64  `json:"cpi_index"`
	PctChangeMoM *float64 `json:"pct_change_mom"`
	PctChangeYoY *float64 `json:"pct_change_yoy"`
}

// PriceIndex handles GET /v1/price-index
func (h *Handler) PriceIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	samples, err := h.analytics.PriceIndexSeries(q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	rows := make([]priceIndexRow, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, priceIndexRow{
			Date:         s.Date.Format("2006-01-02"),
			CPIIndex:     s.CPIIndex,
			PctChangeMoM: s.PctChangeMoM,
			PctChangeYoY: s.PctChangeYoY,
		})
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// WelfareYear handles GET /v1/pip/uk/{year}
func (h *Handler) WelfareYear(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["year"]
	year, err := strconv.Atoi(raw)
	if err != nil || year < service.MinYear || year > service.MaxYear {
		h.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("year must be an integer between %d and %d", service.MinYear, service.MaxYear))
		return
	}

	rows, err := h.analytics.WelfareYear(year)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// HygieneLatest handles GET /v1/hygiene/uk
func (h *Handler) HygieneLatest(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analytics.LatestHygieneIndicators()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if rows == nil {
		rows = []models.HygieneIndicator{}
	}
	h.writeJSON(w, http.StatusOK, rows)
}
