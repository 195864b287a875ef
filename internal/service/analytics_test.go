package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/JiaXinLow/period-poverty-api/internal/repository"
)

func newAnalytics(store repository.Store) *AnalyticsService {
	return NewAnalyticsService(store, repository.NewMockCache(), testLogger())
}

// seededStore returns a store with the canonical fixture: one basket
// line (2.50 x 2/month), the 2018 p20 welfare row and one 2018 hygiene
// indicator.
func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	if err := store.CreateBasketLine(&models.BasketLine{Name: "pads pack", UnitPrice: 2.5, UnitsPerMonth: 2, Currency: "GBP"}); err != nil {
		t.Fatalf("seed basket: %v", err)
	}
	if err := store.UpsertWelfarePercentile(models.WelfarePercentile{Year: 2018, Percentile: 20, AvgWelfare: 18.75}); err != nil {
		t.Fatalf("seed welfare: %v", err)
	}
	if err := store.UpsertHygieneIndicator(models.HygieneIndicator{Country: "United Kingdom", Year: 2018, Indicator: "bathing_facility", Value: 99.7}); err != nil {
		t.Fatalf("seed hygiene: %v", err)
	}
	return store
}

func mustUpsertSample(t *testing.T, store *repository.MemoryStore, date string, index float64, yoy *float64) {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", date, err)
	}
	if err := store.UpsertPriceSample(models.PriceSample{Date: day, CPIIndex: index, PctChangeYoY: yoy}); err != nil {
		t.Fatalf("seed price sample: %v", err)
	}
}

func TestEstimateCost_Deterministic(t *testing.T) {
	svc := newAnalytics(repository.NewMemoryStore())

	lines := []models.BasketLine{{Name: "pads pack", UnitPrice: 2.5, UnitsPerMonth: 2, Currency: "GBP"}}
	got, err := svc.EstimateCost(lines, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MonthlyCost != 5.00 {
		t.Errorf("monthly = %v, want 5.00", got.MonthlyCost)
	}
	if got.AnnualCost != 60.00 {
		t.Errorf("annual = %v, want 60.00", got.AnnualCost)
	}
	if len(got.UsedLines) != 1 || got.UsedLines[0].Name != "pads pack" {
		t.Errorf("used lines not echoed: %+v", got.UsedLines)
	}
}

func TestEstimateCost_UpliftAppliesExactlyOnce(t *testing.T) {
	store := repository.NewMemoryStore()
	yoy := 10.0
	mustUpsertSample(t, store, "2025-12-01", 119.8, &yoy)
	svc := newAnalytics(store)

	lines := []models.BasketLine{{Name: "pads pack", UnitPrice: 2.5, UnitsPerMonth: 2, Currency: "GBP"}}
	got, err := svc.EstimateCost(lines, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MonthlyCost != 5.50 {
		t.Errorf("uplifted monthly = %v, want 5.50", got.MonthlyCost)
	}
	if got.AnnualCost != 66.00 {
		t.Errorf("uplifted annual = %v, want 66.00", got.AnnualCost)
	}
}

func TestEstimateCost_UpliftUsesLatestSample(t *testing.T) {
	store := repository.NewMemoryStore()
	oldYoY, newYoY := 50.0, 10.0
	mustUpsertSample(t, store, "2024-01-01", 110.0, &oldYoY)
	mustUpsertSample(t, store, "2025-12-01", 119.8, &newYoY)
	svc := newAnalytics(store)

	lines := []models.BasketLine{{Name: "pads pack", UnitPrice: 2.5, UnitsPerMonth: 2, Currency: "GBP"}}
	got, err := svc.EstimateCost(lines, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MonthlyCost != 5.50 {
		t.Errorf("monthly = %v, want 5.50 (latest yoy of 10)", got.MonthlyCost)
	}
}

func TestEstimateCost_MissingYoYMeansNoUplift(t *testing.T) {
	store := repository.NewMemoryStore()
	mustUpsertSample(t, store, "2025-12-01", 119.8, nil)
	svc := newAnalytics(store)

	lines := []models.BasketLine{{Name: "pads pack", UnitPrice: 2.5, UnitsPerMonth: 2, Currency: "GBP"}}
	got, err := svc.EstimateCost(lines, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MonthlyCost != 5.00 {
		t.Errorf("monthly = %v, want 5.00 when yoy is absent", got.MonthlyCost)
	}
}

func TestEstimateCost_FallsBackToStoredBasket(t *testing.T) {
	store := seededStore(t)
	svc := newAnalytics(store)

	got, err := svc.EstimateCost(nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MonthlyCost != 5.00 {
		t.Errorf("monthly = %v, want 5.00 from stored basket", got.MonthlyCost)
	}
}

func TestEstimateCost_NoBasketAnywhere(t *testing.T) {
	svc := newAnalytics(repository.NewMemoryStore())

	if _, err := svc.EstimateCost(nil, false); !errors.Is(err, ErrNoBasketData) {
		t.Errorf("expected ErrNoBasketData, got %v", err)
	}
}

func TestEstimateCost_UpliftWithoutPriceData(t *testing.T) {
	svc := newAnalytics(repository.NewMemoryStore())

	lines := []models.BasketLine{{Name: "pads pack", UnitPrice: 2.5, UnitsPerMonth: 2, Currency: "GBP"}}
	if _, err := svc.EstimateCost(lines, true); !errors.Is(err, ErrNoPriceData) {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}
}

func TestCostBurden(t *testing.T) {
	svc := newAnalytics(seededStore(t))

	got, err := svc.CostBurden(2018, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year != 2018 || got.Percentile != 20 {
		t.Errorf("echoed key = (%d, %d), want (2018, 20)", got.Year, got.Percentile)
	}
	if got.AnnualCost != 60.00 {
		t.Errorf("annual cost = %v, want 60.00", got.AnnualCost)
	}
	if got.AvgWelfareAnnualPPP != 6843.75 {
		t.Errorf("annual welfare = %v, want 6843.75 (18.75 x 365)", got.AvgWelfareAnnualPPP)
	}
	if got.BurdenRatio != 0.0088 {
		t.Errorf("burden ratio = %v, want 0.0088", got.BurdenRatio)
	}
}

func TestCostBurden_ZeroWelfareSaturates(t *testing.T) {
	store := seededStore(t)
	if err := store.UpsertWelfarePercentile(models.WelfarePercentile{Year: 2018, Percentile: 1, AvgWelfare: 0}); err != nil {
		t.Fatalf("seed welfare: %v", err)
	}
	svc := newAnalytics(store)

	got, err := svc.CostBurden(2018, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BurdenRatio != 0 {
		t.Errorf("burden ratio = %v, want 0 for zero welfare", got.BurdenRatio)
	}
}

func TestCostBurden_MissingWelfare(t *testing.T) {
	svc := newAnalytics(seededStore(t))

	if _, err := svc.CostBurden(1999, 20); !errors.Is(err, ErrNoWelfareData) {
		t.Errorf("expected ErrNoWelfareData, got %v", err)
	}
}

func TestCostBurden_EmptyBasket(t *testing.T) {
	store := repository.NewMemoryStore()
	if err := store.UpsertWelfarePercentile(models.WelfarePercentile{Year: 2018, Percentile: 20, AvgWelfare: 18.75}); err != nil {
		t.Fatalf("seed welfare: %v", err)
	}
	svc := newAnalytics(store)

	if _, err := svc.CostBurden(2018, 20); !errors.Is(err, ErrNoBasketData) {
		t.Errorf("expected ErrNoBasketData, got %v", err)
	}
}

func TestCostBurden_ServedFromCache(t *testing.T) {
	cache := repository.NewMockCache()
	cached := models.CostBurden{Year: 2018, Percentile: 20, AnnualCost: 60, AvgWelfareAnnualPPP: 6843.75, BurdenRatio: 0.0088}
	raw, err := json.Marshal(cached)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	cache.Data["cost-burden:2018:20"] = string(raw)

	// The store is empty, so any computation would fail with
	// ErrNoBasketData; a successful result proves the cache was used.
	svc := NewAnalyticsService(repository.NewMemoryStore(), cache, testLogger())
	got, err := svc.CostBurden(2018, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BurdenRatio != 0.0088 {
		t.Errorf("burden ratio = %v, want cached 0.0088", got.BurdenRatio)
	}
}

func TestSeverityScore(t *testing.T) {
	svc := newAnalytics(seededStore(t))

	got, err := svc.SeverityScore(2018, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year != 2018 {
		t.Errorf("year = %d, want 2018", got.Year)
	}
	if got.HygieneValuePct != 99.7 {
		t.Errorf("hygiene value = %v, want 99.7", got.HygieneValuePct)
	}
	if got.HygieneSeverity != 0.003 {
		t.Errorf("hygiene severity = %v, want 0.003", got.HygieneSeverity)
	}
	// 0.7*0.0088 + 0.3*0.003 = 0.00706, rounded to 0.0071.
	if got.CombinedSeverity != 0.0071 {
		t.Errorf("combined severity = %v, want 0.0071", got.CombinedSeverity)
	}
}

func TestSeverityScore_CompositeBounds(t *testing.T) {
	for _, value := range []float64{0, 25.5, 50, 99.7, 100} {
		store := seededStore(t)
		if err := store.UpsertHygieneIndicator(models.HygieneIndicator{Country: "United Kingdom", Year: 2019, Indicator: "bathing_facility", Value: value}); err != nil {
			t.Fatalf("seed hygiene: %v", err)
		}
		svc := newAnalytics(store)

		got, err := svc.SeverityScore(2018, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.HygieneSeverity < 0 || got.HygieneSeverity > 1 {
			t.Errorf("hygiene severity %v out of [0,1] for value %v", got.HygieneSeverity, value)
		}
		if got.CombinedSeverity < 0 {
			t.Errorf("combined severity %v negative for value %v", got.CombinedSeverity, value)
		}
	}
}

func TestSeverityScore_UsesMaxHygieneYear(t *testing.T) {
	store := seededStore(t)
	if err := store.UpsertHygieneIndicator(models.HygieneIndicator{Country: "United Kingdom", Year: 2020, Indicator: "bathing_facility", Value: 80}); err != nil {
		t.Fatalf("seed hygiene: %v", err)
	}
	svc := newAnalytics(store)

	got, err := svc.SeverityScore(2018, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.HygieneValuePct != 80 {
		t.Errorf("hygiene value = %v, want 80 from the 2020 row", got.HygieneValuePct)
	}
}

func TestSeverityScore_TieBreaksOnIndicatorName(t *testing.T) {
	store := seededStore(t)
	if err := store.UpsertHygieneIndicator(models.HygieneIndicator{Country: "United Kingdom", Year: 2018, Indicator: "water_access", Value: 95}); err != nil {
		t.Fatalf("seed hygiene: %v", err)
	}
	svc := newAnalytics(store)

	got, err := svc.SeverityScore(2018, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// bathing_facility sorts before water_access.
	if got.HygieneValuePct != 99.7 {
		t.Errorf("hygiene value = %v, want 99.7 from bathing_facility", got.HygieneValuePct)
	}
}

func TestSeverityScore_NoHygieneData(t *testing.T) {
	store := repository.NewMemoryStore()
	if err := store.CreateBasketLine(&models.BasketLine{Name: "pads pack", UnitPrice: 2.5, UnitsPerMonth: 2, Currency: "GBP"}); err != nil {
		t.Fatalf("seed basket: %v", err)
	}
	if err := store.UpsertWelfarePercentile(models.WelfarePercentile{Year: 2018, Percentile: 20, AvgWelfare: 18.75}); err != nil {
		t.Fatalf("seed welfare: %v", err)
	}
	svc := newAnalytics(store)

	if _, err := svc.SeverityScore(2018, 20); !errors.Is(err, ErrNoHygieneData) {
		t.Errorf("expected ErrNoHygieneData, got %v", err)
	}
}

func TestSeverityScore_PropagatesBurdenFailures(t *testing.T) {
	svc := newAnalytics(seededStore(t))

	if _, err := svc.SeverityScore(1999, 20); !errors.Is(err, ErrNoWelfareData) {
		t.Errorf("expected ErrNoWelfareData, got %v", err)
	}
}

func TestInflationTrend_BoundsAreInclusive(t *testing.T) {
	store := repository.NewMemoryStore()
	mustUpsertSample(t, store, "2018-01-31", 100.4, nil)
	mustUpsertSample(t, store, "2018-02-01", 100.5, nil)
	mustUpsertSample(t, store, "2018-03-01", 100.6, nil)
	mustUpsertSample(t, store, "2018-03-02", 100.7, nil)
	svc := newAnalytics(store)

	got, err := svc.InflationTrend("2018-02-01", "2018-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Points) != 2 {
		t.Fatalf("got %d points, want 2: %+v", len(got.Points), got.Points)
	}
	if got.Points[0].Date != "2018-02-01" || got.Points[1].Date != "2018-03-01" {
		t.Errorf("wrong points: %+v", got.Points)
	}
}

func TestInflationTrend_MonthBoundNormalized(t *testing.T) {
	store := repository.NewMemoryStore()
	mustUpsertSample(t, store, "2018-01-01", 100.5, nil)
	mustUpsertSample(t, store, "2018-02-01", 100.6, nil)
	svc := newAnalytics(store)

	got, err := svc.InflationTrend("2018-02", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Points) != 1 || got.Points[0].Date != "2018-02-01" {
		t.Errorf("wrong points: %+v", got.Points)
	}
	if got.From == nil || *got.From != "2018-02" {
		t.Errorf("from not echoed verbatim: %v", got.From)
	}
	if got.To != nil {
		t.Errorf("to should stay nil, got %v", *got.To)
	}
}

func TestInflationTrend_EmptyRangeIsNotAnError(t *testing.T) {
	svc := newAnalytics(repository.NewMemoryStore())

	got, err := svc.InflationTrend("2018-01", "2018-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Points) != 0 {
		t.Errorf("expected no points, got %+v", got.Points)
	}
}

func TestInflationTrend_InvalidBound(t *testing.T) {
	svc := newAnalytics(repository.NewMemoryStore())

	if _, err := svc.InflationTrend("2018-13", ""); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}
