package models

// TrendPoint is one projected price sample in an inflation trend.
type TrendPoint struct {
	Date         string   `json:"date"` // Format: YYYY-MM-DD
	CPIIndex     float64  `json:"cpi_index"`
	PctChangeYoY *float64 `json:"pct_change_yoy"`
}

// InflationTrend is the filtered CPI series, echoing the raw bounds.
type InflationTrend struct {
	From   *string      `json:"from"`
	To     *string      `json:"to"`
	Points []TrendPoint `json:"points"`
}

// CostEstimate represents monthly and annual basket cost, with the
// lines the figures were computed from.
type CostEstimate struct {
	MonthlyCost float64      `json:"monthly_cost"`
	AnnualCost  float64      `json:"annual_cost"`
	UsedLines   []BasketLine `json:"used_lines"`
}

// CostBurden represents annual basket cost against annualized welfare.
type CostBurden struct {
	Year                int     `json:"year"`
	Percentile          int     `json:"percentile"`
	AnnualCost          float64 `json:"annual_cost"`
	AvgWelfareAnnualPPP float64 `json:"avg_welfare_annual_ppp"`
	BurdenRatio         float64 `json:"burden_ratio"` // AnnualCost / AvgWelfareAnnualPPP
}

// SeverityScore blends affordability burden with the hygiene-access
// deficit into one composite figure.
type SeverityScore struct {
	Year                int     `json:"year"`
	AnnualCost          float64 `json:"annual_cost"`
	AvgWelfareAnnualPPP float64 `json:"avg_welfare_annual_ppp"`
	BurdenRatio         float64 `json:"burden_ratio"`
	HygieneValuePct     float64 `json:"hygiene_value_pct"`
	HygieneSeverity     float64 `json:"hygiene_severity"` // 1 - HygieneValuePct/100
	CombinedSeverity    float64 `json:"combined_severity"`
}
