package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
)

// Repository provides database operations over the four dataset tables.
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the dataset tables when missing. Idempotent,
// run at startup and by the offline loader.
func (r *Repository) EnsureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_index (
			id SERIAL PRIMARY KEY,
			date DATE NOT NULL UNIQUE,
			cpi_index DOUBLE PRECISION NOT NULL,
			pct_change_mom DOUBLE PRECISION,
			pct_change_yoy DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS income_poverty (
			id SERIAL PRIMARY KEY,
			year INTEGER NOT NULL,
			percentile INTEGER NOT NULL,
			avg_welfare DOUBLE PRECISION NOT NULL,
			welfare_type TEXT,
			UNIQUE (year, percentile)
		)`,
		`CREATE TABLE IF NOT EXISTS hygiene_access (
			id SERIAL PRIMARY KEY,
			country TEXT NOT NULL,
			year INTEGER NOT NULL,
			indicator TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			UNIQUE (country, year, indicator)
		)`,
		`CREATE TABLE IF NOT EXISTS basket_item (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			unit_price DOUBLE PRECISION NOT NULL,
			units_per_month DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL DEFAULT 'GBP',
			notes TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// PriceSamples returns samples within the inclusive [from, to] range,
// sorted ascending by date.
func (r *Repository) PriceSamples(from, to *time.Time) ([]models.PriceSample, error) {
	query := `
		SELECT id, date, cpi_index, pct_change_mom, pct_change_yoy
		FROM price_index
		WHERE ($1::date IS NULL OR date >= $1)
		  AND ($2::date IS NULL OR date <= $2)
		ORDER BY date ASC`
	rows, err := r.db.Query(query, nullTime(from), nullTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query price samples: %w", err)
	}
	defer rows.Close()

	var samples []models.PriceSample
	for rows.Next() {
		sample, err := scanPriceSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, *sample)
	}
	return samples, rows.Err()
}

// LatestPriceSample returns the most recent sample, or nil when the
// table is empty.
func (r *Repository) LatestPriceSample() (*models.PriceSample, error) {
	query := `
		SELECT id, date, cpi_index, pct_change_mom, pct_change_yoy
		FROM price_index
		ORDER BY date DESC
		LIMIT 1`
	sample, err := scanPriceSample(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sample, nil
}

// WelfarePercentile returns the unique row for (year, percentile), or
// nil when absent.
func (r *Repository) WelfarePercentile(year, percentile int) (*models.WelfarePercentile, error) {
	rec := &models.WelfarePercentile{}
	var welfareType sql.NullString
	query := `
		SELECT id, year, percentile, avg_welfare, welfare_type
		FROM income_poverty
		WHERE year = $1 AND percentile = $2`
	err := r.db.QueryRow(query, year, percentile).
		Scan(&rec.ID, &rec.Year, &rec.Percentile, &rec.AvgWelfare, &welfareType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query welfare percentile: %w", err)
	}
	if welfareType.Valid {
		rec.WelfareType = &welfareType.String
	}
	return rec, nil
}

// WelfarePercentilesByYear returns all rows for a year, ascending by
// percentile.
func (r *Repository) WelfarePercentilesByYear(year int) ([]models.WelfarePercentile, error) {
	query := `
		SELECT id, year, percentile, avg_welfare, welfare_type
		FROM income_poverty
		WHERE year = $1
		ORDER BY percentile ASC`
	rows, err := r.db.Query(query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query welfare percentiles: %w", err)
	}
	defer rows.Close()

	var recs []models.WelfarePercentile
	for rows.Next() {
		rec := models.WelfarePercentile{}
		var welfareType sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Year, &rec.Percentile, &rec.AvgWelfare, &welfareType); err != nil {
			return nil, fmt.Errorf("failed to scan welfare percentile: %w", err)
		}
		if welfareType.Valid {
			rec.WelfareType = &welfareType.String
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// HygieneIndicators returns all indicator rows for a year, ascending by
// indicator name.
func (r *Repository) HygieneIndicators(year int) ([]models.HygieneIndicator, error) {
	query := `
		SELECT id, country, year, indicator, value
		FROM hygiene_access
		WHERE year = $1
		ORDER BY indicator ASC`
	rows, err := r.db.Query(query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query hygiene indicators: %w", err)
	}
	defer rows.Close()

	var recs []models.HygieneIndicator
	for rows.Next() {
		rec := models.HygieneIndicator{}
		if err := rows.Scan(&rec.ID, &rec.Country, &rec.Year, &rec.Indicator, &rec.Value); err != nil {
			return nil, fmt.Errorf("failed to scan hygiene indicator: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// MaxHygieneYear returns the greatest hygiene year, or 0 when the
// table is empty.
func (r *Repository) MaxHygieneYear() (int, error) {
	var year int
	err := r.db.QueryRow(`SELECT COALESCE(MAX(year), 0) FROM hygiene_access`).Scan(&year)
	if err != nil {
		return 0, fmt.Errorf("failed to query max hygiene year: %w", err)
	}
	return year, nil
}

// BasketLines returns every stored basket line.
func (r *Repository) BasketLines() ([]models.BasketLine, error) {
	return r.ListBasketLines()
}

// CreateBasketLine creates a new basket line in the database
func (r *Repository) CreateBasketLine(line *models.BasketLine) error {
	query := `
		INSERT INTO basket_item (name, unit_price, units_per_month, currency, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRow(query, line.Name, line.UnitPrice, line.UnitsPerMonth, line.Currency, nullString(line.Notes)).
		Scan(&line.ID)
	if err != nil {
		return fmt.Errorf("failed to create basket line: %w", err)
	}
	return nil
}

// ListBasketLines retrieves all basket lines ordered by id
func (r *Repository) ListBasketLines() ([]models.BasketLine, error) {
	query := `
		SELECT id, name, unit_price, units_per_month, currency, notes
		FROM basket_item
		ORDER BY id ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list basket lines: %w", err)
	}
	defer rows.Close()

	var lines []models.BasketLine
	for rows.Next() {
		line, err := scanBasketLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, rows.Err()
}

// GetBasketLine retrieves a basket line by id, or nil when absent.
func (r *Repository) GetBasketLine(id int64) (*models.BasketLine, error) {
	query := `
		SELECT id, name, unit_price, units_per_month, currency, notes
		FROM basket_item
		WHERE id = $1`
	line, err := scanBasketLine(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

// FindBasketLineByName retrieves a basket line by name, or nil when
// absent.
func (r *Repository) FindBasketLineByName(name string) (*models.BasketLine, error) {
	query := `
		SELECT id, name, unit_price, units_per_month, currency, notes
		FROM basket_item
		WHERE name = $1`
	line, err := scanBasketLine(r.db.QueryRow(query, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateBasketLine persists all fields of an existing basket line.
func (r *Repository) UpdateBasketLine(line *models.BasketLine) error {
	query := `
		UPDATE basket_item
		SET name = $1, unit_price = $2, units_per_month = $3, currency = $4, notes = $5
		WHERE id = $6`
	if _, err := r.db.Exec(query, line.Name, line.UnitPrice, line.UnitsPerMonth, line.Currency, nullString(line.Notes), line.ID); err != nil {
		return fmt.Errorf("failed to update basket line: %w", err)
	}
	return nil
}

// DeleteBasketLine removes a basket line, reporting whether a row
// existed.
func (r *Repository) DeleteBasketLine(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM basket_item WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete basket line: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete basket line: %w", err)
	}
	return affected > 0, nil
}

// UpsertPriceSample inserts or replaces the sample for its date.
func (r *Repository) UpsertPriceSample(sample models.PriceSample) error {
	query := `
		INSERT INTO price_index (date, cpi_index, pct_change_mom, pct_change_yoy)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE
		SET cpi_index = EXCLUDED.cpi_index,
		    pct_change_mom = EXCLUDED.pct_change_mom,
		    pct_change_yoy = EXCLUDED.pct_change_yoy`
	if _, err := r.db.Exec(query, sample.Date, sample.CPIIndex, nullFloat(sample.PctChangeMoM), nullFloat(sample.PctChangeYoY)); err != nil {
		return fmt.Errorf("failed to upsert price sample: %w", err)
	}
	return nil
}

// UpsertWelfarePercentile inserts or replaces the row for its
// (year, percentile).
func (r *Repository) UpsertWelfarePercentile(rec models.WelfarePercentile) error {
	query := `
		INSERT INTO income_poverty (year, percentile, avg_welfare, welfare_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (year, percentile) DO UPDATE
		SET avg_welfare = EXCLUDED.avg_welfare,
		    welfare_type = EXCLUDED.welfare_type`
	if _, err := r.db.Exec(query, rec.Year, rec.Percentile, rec.AvgWelfare, nullString(rec.WelfareType)); err != nil {
		return fmt.Errorf("failed to upsert welfare percentile: %w", err)
	}
	return nil
}

// UpsertHygieneIndicator inserts or replaces the row for its
// (country, year, indicator).
func (r *Repository) UpsertHygieneIndicator(rec models.HygieneIndicator) error {
	query := `
		INSERT INTO hygiene_access (country, year, indicator, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (country, year, indicator) DO UPDATE
		SET value = EXCLUDED.value`
	if _, err := r.db.Exec(query, rec.Country, rec.Year, rec.Indicator, rec.Value); err != nil {
		return fmt.Errorf("failed to upsert hygiene indicator: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPriceSample(row rowScanner) (*models.PriceSample, error) {
	sample := &models.PriceSample{}
	var mom, yoy sql.NullFloat64
	if err := row.Scan(&sample.ID, &sample.Date, &sample.CPIIndex, &mom, &yoy); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan price sample: %w", err)
	}
	if mom.Valid {
		sample.PctChangeMoM = &mom.Float64
	}
	if yoy.Valid {
		sample.PctChangeYoY = &yoy.Float64
	}
	return sample, nil
}

func scanBasketLine(row rowScanner) (*models.BasketLine, error) {
	line := &models.BasketLine{}
	var notes sql.NullString
	if err := row.Scan(&line.ID, &line.Name, &line.UnitPrice, &line.UnitsPerMonth, &line.Currency, &notes); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan basket line: %w", err)
	}
	if notes.Valid {
		line.Notes = &notes.String
	}
	return line, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
