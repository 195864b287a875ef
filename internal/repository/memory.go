package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
)

// MemoryStore is an in-memory implementation of Store and
// BasketRepository. Used by the tests and for dependency-free local
// runs (STORE=memory).
type MemoryStore struct {
	mu       sync.RWMutex
	samples  []models.PriceSample
	welfare  []models.WelfarePercentile
	hygiene  []models.HygieneIndicator
	basket   []models.BasketLine
	basketID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// PriceSamples returns samples within the inclusive [from, to] range,
// sorted ascending by date.
func (m *MemoryStore) PriceSamples(from, to *time.Time) ([]models.PriceSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.PriceSample
	for _, s := range m.samples {
		if from != nil && s.Date.Before(*from) {
			continue
		}
		if to != nil && s.Date.After(*to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// LatestPriceSample returns the most recent sample, or nil when empty.
func (m *MemoryStore) LatestPriceSample() (*models.PriceSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *models.PriceSample
	for i := range m.samples {
		s := m.samples[i]
		if latest == nil || s.Date.After(latest.Date) {
			latest = &s
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

// WelfarePercentile returns the unique row for (year, percentile), or
// nil when absent.
func (m *MemoryStore) WelfarePercentile(year, percentile int) (*models.WelfarePercentile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, w := range m.welfare {
		if w.Year == year && w.Percentile == percentile {
			cp := w
			return &cp, nil
		}
	}
	return nil, nil
}

// WelfarePercentilesByYear returns all rows for a year, ascending by
// percentile.
func (m *MemoryStore) WelfarePercentilesByYear(year int) ([]models.WelfarePercentile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.WelfarePercentile
	for _, w := range m.welfare {
		if w.Year == year {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Percentile < out[j].Percentile })
	return out, nil
}

// HygieneIndicators returns all rows for a year, ascending by
// indicator name.
func (m *MemoryStore) HygieneIndicators(year int) ([]models.HygieneIndicator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.HygieneIndicator
	for _, h := range m.hygiene {
		if h.Year == year {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Indicator < out[j].Indicator })
	return out, nil
}

// MaxHygieneYear returns the greatest hygiene year, or 0 when empty.
func (m *MemoryStore) MaxHygieneYear() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	max := 0
	for _, h := range m.hygiene {
		if h.Year > max {
			max = h.Year
		}
	}
	return max, nil
}

// BasketLines returns every stored basket line.
func (m *MemoryStore) BasketLines() ([]models.BasketLine, error) {
	return m.ListBasketLines()
}

// CreateBasketLine stores a new basket line, assigning an id.
func (m *MemoryStore) CreateBasketLine(line *models.BasketLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.basketID++
	line.ID = m.basketID
	m.basket = append(m.basket, *line)
	return nil
}

// ListBasketLines returns all basket lines ordered by id.
func (m *MemoryStore) ListBasketLines() ([]models.BasketLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.BasketLine, len(m.basket))
	copy(out, m.basket)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetBasketLine returns a basket line by id, or nil when absent.
func (m *MemoryStore) GetBasketLine(id int64) (*models.BasketLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.basket {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, nil
}

// FindBasketLineByName returns a basket line by name, or nil when
// absent.
func (m *MemoryStore) FindBasketLineByName(name string) (*models.BasketLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.basket {
		if l.Name == name {
			cp := l
			return &cp, nil
		}
	}
	return nil, nil
}

// UpdateBasketLine replaces the stored line with the same id.
func (m *MemoryStore) UpdateBasketLine(line *models.BasketLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.basket {
		if m.basket[i].ID == line.ID {
			m.basket[i] = *line
			return nil
		}
	}
	return nil
}

// DeleteBasketLine removes a line by id, reporting whether it existed.
func (m *MemoryStore) DeleteBasketLine(id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.basket {
		if m.basket[i].ID == id {
			m.basket = append(m.basket[:i], m.basket[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// UpsertPriceSample inserts or replaces the sample for its date.
func (m *MemoryStore) UpsertPriceSample(sample models.PriceSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.samples {
		if m.samples[i].Date.Equal(sample.Date) {
			sample.ID = m.samples[i].ID
			m.samples[i] = sample
			return nil
		}
	}
	sample.ID = int64(len(m.samples) + 1)
	m.samples = append(m.samples, sample)
	return nil
}

// UpsertWelfarePercentile inserts or replaces the row for its
// (year, percentile).
func (m *MemoryStore) UpsertWelfarePercentile(rec models.WelfarePercentile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.welfare {
		if m.welfare[i].Year == rec.Year && m.welfare[i].Percentile == rec.Percentile {
			rec.ID = m.welfare[i].ID
			m.welfare[i] = rec
			return nil
		}
	}
	rec.ID = int64(len(m.welfare) + 1)
	m.welfare = append(m.welfare, rec)
	return nil
}

// UpsertHygieneIndicator inserts or replaces the row for its
// (country, year, indicator).
func (m *MemoryStore) UpsertHygieneIndicator(rec models.HygieneIndicator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.hygiene {
		h := m.hygiene[i]
		if h.Country == rec.Country && h.Year == rec.Year && h.Indicator == rec.Indicator {
			rec.ID = h.ID
			m.hygiene[i] = rec
			return nil
		}
	}
	rec.ID = int64(len(m.hygiene) + 1)
	m.hygiene = append(m.hygiene, rec)
	return nil
}
