package models

// HygieneIndicator is one hygiene-access indicator row, e.g.
// ("United Kingdom", 2018, "bathing_facility", 99.7). Value is a
// percentage in [0, 100].
type HygieneIndicator struct {
	ID        int64   `json:"id"`
	Country   string  `json:"country"`
	Year      int     `json:"year"`
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
}
