package models

import "time"

// PriceSample is one monthly observation of the personal care CPI sub-index.
// The month-over-month and year-over-year changes are absent for the first
// rows of the series.
type PriceSample struct {
	ID           int64     `json:"id"`
	Date         time.Time `json:"date"`
	CPIIndex     float64   `json:"cpi_index"`
	PctChangeMoM *float64  `json:"pct_change_mom"`
	PctChangeYoY *float64  `json:"pct_change_yoy"`
}
