package repository

import (
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
)

// Store is the read-only datastore view the analytics computations run
// against. Implementations must return stable snapshots per call; the
// computations hold no state of their own.
type Store interface {
	// PriceSamples returns samples within the inclusive [from, to]
	// range, sorted ascending by date. Nil bounds impose no
	// restriction on that side.
	PriceSamples(from, to *time.Time) ([]models.PriceSample, error)
	// LatestPriceSample returns the sample with the most recent date,
	// or nil when the table is empty.
	LatestPriceSample() (*models.PriceSample, error)
	// WelfarePercentile returns the unique row for (year, percentile),
	// or nil when absent.
	WelfarePercentile(year, percentile int) (*models.WelfarePercentile, error)
	// WelfarePercentilesByYear returns all rows for a year, sorted
	// ascending by percentile.
	WelfarePercentilesByYear(year int) ([]models.WelfarePercentile, error)
	// HygieneIndicators returns all indicator rows for a year, sorted
	// ascending by indicator name.
	HygieneIndicators(year int) ([]models.HygieneIndicator, error)
	// MaxHygieneYear returns the greatest year present in the hygiene
	// table, or 0 when the table is empty.
	MaxHygieneYear() (int, error)
	// BasketLines returns every stored basket line.
	BasketLines() ([]models.BasketLine, error)
}

// BasketRepository provides CRUD over stored basket lines.
type BasketRepository interface {
	CreateBasketLine(line *models.BasketLine) error
	ListBasketLines() ([]models.BasketLine, error)
	GetBasketLine(id int64) (*models.BasketLine, error)
	UpdateBasketLine(line *models.BasketLine) error
	DeleteBasketLine(id int64) (bool, error)
	FindBasketLineByName(name string) (*models.BasketLine, error)
}

// CacheRepository is a plain string cache for computed analytics
// results.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
