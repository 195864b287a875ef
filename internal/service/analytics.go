package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/JiaXinLow/period-poverty-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AnalyticsService computes the derived affordability metrics. Every
// operation is a single-pass pure computation over a datastore
// snapshot; the service holds no mutable state.
type AnalyticsService struct {
	store repository.Store
	cache repository.CacheRepository
	log   *logrus.Logger
}

// NewAnalyticsService initializes a new analytics service.
func NewAnalyticsService(store repository.Store, cache repository.CacheRepository, log *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, cache: cache, log: log}
}

// InflationTrend returns the CPI series within the inclusive [from, to]
// range, each bound optional as an empty string. An empty result is not
// an error.
func (s *AnalyticsService) InflationTrend(from, to string) (*models.InflationTrend, error) {
	var lower, upper *time.Time
	if from != "" {
		dt, err := ParseMonthOrDate(from)
		if err != nil {
			return nil, err
		}
		lower = &dt
	}
	if to != "" {
		dt, err := ParseMonthOrDate(to)
		if err != nil {
			return nil, err
		}
		upper = &dt
	}

	samples, err := s.store.PriceSamples(lower, upper)
	if err != nil {
		return nil, fmt.Errorf("failed to load price samples: %w", err)
	}

	points := make([]models.TrendPoint, 0, len(samples))
	for _, r := range samples {
		points = append(points, models.TrendPoint{
			Date:         r.Date.Format("2006-01-02"),
			CPIIndex:     r.CPIIndex,
			PctChangeYoY: r.PctChangeYoY,
		})
	}

	trend := &models.InflationTrend{Points: points}
	if from != "" {
		trend.From = &from
	}
	if to != "" {
		trend.To = &to
	}
	return trend, nil
}

// EstimateCost computes monthly and annual basket cost. Caller-supplied
// lines take precedence over the stored basket; with applyYoYCPI set
// the monthly cost is uplifted by the latest sample's year-over-year
// change before annualizing.
func (s *AnalyticsService) EstimateCost(lines []models.BasketLine, applyYoYCPI bool) (*models.CostEstimate, error) {
	used := lines
	if len(used) == 0 {
		stored, err := s.store.BasketLines()
		if err != nil {
			return nil, fmt.Errorf("failed to load basket lines: %w", err)
		}
		used = stored
	}
	if len(used) == 0 {
		return nil, ErrNoBasketData
	}

	monthly := SumBasketLines(used)

	if applyYoYCPI {
		latest, err := s.store.LatestPriceSample()
		if err != nil {
			return nil, fmt.Errorf("failed to load latest price sample: %w", err)
		}
		if latest == nil {
			return nil, ErrNoPriceData
		}
		yoy := 0.0
		if latest.PctChangeYoY != nil {
			yoy = *latest.PctChangeYoY
		}
		factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(yoy).Div(decimal.NewFromInt(100)))
		monthly = monthly.Mul(factor)
	}

	annual := monthly.Mul(decimal.NewFromInt(MonthsPerYear))

	return &models.CostEstimate{
		MonthlyCost: monthly.Round(2).InexactFloat64(),
		AnnualCost:  annual.Round(2).InexactFloat64(),
		UsedLines:   used,
	}, nil
}

// CostBurden compares the annual cost of the stored basket against the
// annualized welfare of one (year, percentile) row. Results are served
// from the cache when present.
func (s *AnalyticsService) CostBurden(year, percentile int) (*models.CostBurden, error) {
	key := fmt.Sprintf("cost-burden:%d:%d", year, percentile)
	if cached, ok := s.cacheGet(key); ok {
		var burden models.CostBurden
		if err := json.Unmarshal([]byte(cached), &burden); err == nil {
			return &burden, nil
		}
	}

	burden, err := s.costBurden(year, percentile)
	if err != nil {
		return nil, err
	}
	s.cachePut(key, burden)
	return burden, nil
}

// costBurden is the uncached computation shared with SeverityScore.
// The burden is always computed on the unadjusted stored basket.
func (s *AnalyticsService) costBurden(year, percentile int) (*models.CostBurden, error) {
	lines, err := s.store.BasketLines()
	if err != nil {
		return nil, fmt.Errorf("failed to load basket lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNoBasketData
	}
	annualCost := SumBasketLines(lines).Mul(decimal.NewFromInt(MonthsPerYear))

	rec, err := s.store.WelfarePercentile(year, percentile)
	if err != nil {
		return nil, fmt.Errorf("failed to load welfare percentile: %w", err)
	}
	if rec == nil {
		return nil, ErrNoWelfareData
	}

	welfareAnnual := decimal.NewFromFloat(rec.AvgWelfare).Mul(decimal.NewFromInt(DaysPerYear))

	// Saturate to zero instead of dividing by a non-positive welfare.
	ratio := decimal.Zero
	if welfareAnnual.IsPositive() {
		ratio = annualCost.DivRound(welfareAnnual, 8)
	}

	return &models.CostBurden{
		Year:                rec.Year,
		Percentile:          rec.Percentile,
		AnnualCost:          annualCost.Round(2).InexactFloat64(),
		AvgWelfareAnnualPPP: welfareAnnual.Round(2).InexactFloat64(),
		BurdenRatio:         ratio.Round(4).InexactFloat64(),
	}, nil
}

// SeverityScore combines the cost burden with the hygiene-access
// deficit of the most recent hygiene year into one composite score.
func (s *AnalyticsService) SeverityScore(year, percentile int) (*models.SeverityScore, error) {
	key := fmt.Sprintf("severity-score:%d:%d", year, percentile)
	if cached, ok := s.cacheGet(key); ok {
		var score models.SeverityScore
		if err := json.Unmarshal([]byte(cached), &score); err == nil {
			return &score, nil
		}
	}

	burden, err := s.costBurden(year, percentile)
	if err != nil {
		return nil, err
	}

	refYear, err := s.store.MaxHygieneYear()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hygiene year: %w", err)
	}
	if refYear == 0 {
		refYear = year
	}
	rows, err := s.store.HygieneIndicators(refYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load hygiene indicators: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHygieneData
	}
	// Rows arrive sorted by indicator name; taking the first keeps the
	// pick deterministic when a year carries several indicators.
	indicator := rows[0]

	hygieneSeverity := 1.0 - indicator.Value/100.0
	combined := BurdenWeight*burden.BurdenRatio + HygieneWeight*hygieneSeverity

	score := &models.SeverityScore{
		Year:                burden.Year,
		AnnualCost:          burden.AnnualCost,
		AvgWelfareAnnualPPP: burden.AvgWelfareAnnualPPP,
		BurdenRatio:         burden.BurdenRatio,
		HygieneValuePct:     roundTo(indicator.Value, 1),
		HygieneSeverity:     roundTo(hygieneSeverity, 4),
		CombinedSeverity:    roundTo(combined, 4),
	}
	s.cachePut(key, score)
	return score, nil
}

func (s *AnalyticsService) cacheGet(key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	return s.cache.Get(key)
}

func (s *AnalyticsService) cachePut(key string, v any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, string(raw)); err != nil {
		s.log.Warnf("Failed to cache %s: %v", key, err)
	}
}

// roundTo rounds a float to the given number of decimal places.
func roundTo(value float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(value*shift) / shift
}
