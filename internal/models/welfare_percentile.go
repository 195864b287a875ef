package models

// WelfarePercentile is one income percentile row from the PIP welfare
// table. AvgWelfare is a daily PPP figure; callers annualize it.
type WelfarePercentile struct {
	ID          int64   `json:"id"`
	Year        int     `json:"year"`
	Percentile  int     `json:"percentile"`
	AvgWelfare  float64 `json:"avg_welfare"`
	WelfareType *string `json:"welfare_type"`
}
