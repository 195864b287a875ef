package service

import (
	"fmt"
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
)

// Dataset read operations backing the read-only dataset endpoints.

// PriceIndexSeries returns raw price samples within the inclusive
// [from, to] range, each bound optional as an empty string.
func (s *AnalyticsService) PriceIndexSeries(from, to string) ([]models.PriceSample, error) {
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
	return samples, nil
}

// WelfareYear returns all welfare percentiles for a year, ascending by
// percentile. An empty year is reported as missing data.
func (s *AnalyticsService) WelfareYear(year int) ([]models.WelfarePercentile, error) {
	rows, err := s.store.WelfarePercentilesByYear(year)
	if err != nil {
		return nil, fmt.Errorf("failed to load welfare percentiles: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoWelfareData
	}
	return rows, nil
}

// LatestHygieneIndicators returns every indicator row for the most
// recent hygiene year, or an empty slice when the table is empty.
func (s *AnalyticsService) LatestHygieneIndicators() ([]models.HygieneIndicator, error) {
	year, err := s.store.MaxHygieneYear()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hygiene year: %w", err)
	}
	if year == 0 {
		return []models.HygieneIndicator{}, nil
	}
	rows, err := s.store.HygieneIndicators(year)
	if err != nil {
		return nil, fmt.Errorf("failed to load hygiene indicators: %w", err)
	}
	return rows, nil
}
