package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/gorilla/mux"
)

func validateBasketLine(line *models.BasketLine) error {
	if line.Name == "" {
		return fmt.Errorf("name is required")
	}
	if line.UnitPrice < 0 {
		return fmt.Errorf("unit_price must be >= 0")
	}
	if line.UnitsPerMonth < 0 {
		return fmt.Errorf("units_per_month must be >= 0")
	}
	if line.Currency == "" {
		line.Currency = "GBP"
	}
	return nil
}

func basketLineID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be an integer")
	}
	return id, nil
}

// CreateBasketItem handles POST /v1/basket-items
func (h *Handler) CreateBasketItem(w http.ResponseWriter, r *http.Request) {
	var line models.BasketLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		h.writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	line.ID = 0
	if err := validateBasketLine(&line); err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.basket.Create(&line); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, line)
}

// ListBasketItems handles GET /v1/basket-items
func (h *Handler) ListBasketItems(w http.ResponseWriter, r *http.Request) {
	lines, err := h.basket.List()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if lines == nil {
		lines = []models.BasketLine{}
	}
	h.writeJSON(w, http.StatusOK, lines)
}

// GetBasketItem handles GET /v1/basket-items/{id}
func (h *Handler) GetBasketItem(w http.ResponseWriter, r *http.Request) {
	id, err := basketLineID(r)
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	line, err := h.basket.Get(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, line)
}

// UpdateBasketItem handles PUT /v1/basket-items/{id}
func (h *Handler) UpdateBasketItem(w http.ResponseWriter, r *http.Request) {
	id, err := basketLineID(r)
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	var upd models.BasketLineUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if upd.Name != nil && *upd.Name == "" {
		h.writeDetail(w, http.StatusBadRequest, "name must not be empty")
		return
	}
	if upd.UnitPrice != nil && *upd.UnitPrice < 0 {
		h.writeDetail(w, http.StatusBadRequest, "unit_price must be >= 0")
		return
	}
	if upd.UnitsPerMonth != nil && *upd.UnitsPerMonth < 0 {
		h.writeDetail(w, http.StatusBadRequest, "units_per_month must be >= 0")
		return
	}

	line, err := h.basket.Update(id, upd)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, line)
}

// DeleteBasketItem handles DELETE /v1/basket-items/{id}
func (h *Handler) DeleteBasketItem(w http.ResponseWriter, r *http.Request) {
	id, err := basketLineID(r)
	if err != nil {
		h.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.basket.Delete(id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
