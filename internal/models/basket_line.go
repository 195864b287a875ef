package models

// BasketLine is one priced item of the menstrual-hygiene basket. Lines
// either live in the basket_item table or arrive inline with a
// cost-estimate request, in which case ID stays zero.
type BasketLine struct {
	ID            int64   `json:"id,omitempty"`
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unit_price"`
	UnitsPerMonth float64 `json:"units_per_month"`
	Currency      string  `json:"currency"`
	Notes         *string `json:"notes"`
}

// BasketLineUpdate carries a partial update; nil fields are left as-is.
type BasketLineUpdate struct {
	Name          *string  `json:"name"`
	UnitPrice     *float64 `json:"unit_price"`
	UnitsPerMonth *float64 `json:"units_per_month"`
	Currency      *string  `json:"currency"`
	Notes         *string  `json:"notes"`
}
