package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/JiaXinLow/period-poverty-api/internal/service"
	"github.com/sirupsen/logrus"
)

// Sink accepts loaded dataset rows. Loading is an upsert: re-running
// the loader over the same files is safe.
type Sink interface {
	UpsertPriceSample(sample models.PriceSample) error
	UpsertWelfarePercentile(rec models.WelfarePercentile) error
	UpsertHygieneIndicator(rec models.HygieneIndicator) error
}

// Loader seeds the datastore from processed CSV files.
type Loader struct {
	sink Sink
	log  *logrus.Logger
}

// New initializes a new loader
func New(sink Sink, log *logrus.Logger) *Loader {
	return &Loader{sink: sink, log: log}
}

// LoadPriceIndex loads the monthly CPI series. Expected columns:
// date, cpi_index, and optionally pct_change_mom / pct_change_yoy.
func (l *Loader) LoadPriceIndex(path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		date, err := service.ParseMonthOrDate(row.get("date"))
		if err != nil {
			return count, fmt.Errorf("%s row %d: bad date %q", path, i+2, row.get("date"))
		}
		index, err := strconv.ParseFloat(row.get("cpi_index"), 64)
		if err != nil {
			return count, fmt.Errorf("%s row %d: bad cpi_index %q", path, i+2, row.get("cpi_index"))
		}
		sample := models.PriceSample{
			Date:         date,
			CPIIndex:     index,
			PctChangeMoM: row.optionalFloat("pct_change_mom"),
			PctChangeYoY: row.optionalFloat("pct_change_yoy"),
		}
		if err := l.sink.UpsertPriceSample(sample); err != nil {
			return count, err
		}
		count++
	}
	l.log.Infof("Loaded %d price index rows from %s", count, path)
	return count, nil
}

// LoadWelfare loads the PIP percentile table. The daily PPP figure may
// arrive as avg_welfare_daily_ppp or plain avg_welfare.
func (l *Loader) LoadWelfare(path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		year, err := strconv.Atoi(row.get("year"))
		if err != nil {
			return count, fmt.Errorf("%s row %d: bad year %q", path, i+2, row.get("year"))
		}
		percentile, err := strconv.Atoi(row.get("percentile"))
		if err != nil {
			return count, fmt.Errorf("%s row %d: bad percentile %q", path, i+2, row.get("percentile"))
		}
		daily := row.get("avg_welfare_daily_ppp")
		if daily == "" {
			daily = row.get("avg_welfare")
		}
		welfare, err := strconv.ParseFloat(daily, 64)
		if err != nil {
			return count, fmt.Errorf("%s row %d: bad welfare value %q", path, i+2, daily)
		}
		rec := models.WelfarePercentile{
			Year:       year,
			Percentile: percentile,
			AvgWelfare: welfare,
		}
		if t := row.get("welfare_type"); t != "" {
			rec.WelfareType = &t
		}
		if err := l.sink.UpsertWelfarePercentile(rec); err != nil {
			return count, err
		}
		count++
	}
	l.log.Infof("Loaded %d welfare rows from %s", count, path)
	return count, nil
}

// LoadHygiene loads the hygiene-access indicators. Expected columns:
// country, year, indicator, value.
func (l *Loader) LoadHygiene(path string) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		year, err := strconv.Atoi(row.get("year"))
		if err != nil {
			return count, fmt.Errorf("%s row %d: bad year %q", path, i+2, row.get("year"))
		}
		value, err := strconv.ParseFloat(row.get("value"), 64)
		if err != nil {
			return count, fmt.Errorf("%s row %d: bad value %q", path, i+2, row.get("value"))
		}
		rec := models.HygieneIndicator{
			Country:   row.get("country"),
			Year:      year,
			Indicator: row.get("indicator"),
			Value:     value,
		}
		if rec.Country == "" || rec.Indicator == "" {
			return count, fmt.Errorf("%s row %d: country and indicator are required", path, i+2)
		}
		if err := l.sink.UpsertHygieneIndicator(rec); err != nil {
			return count, err
		}
		count++
	}
	l.log.Infof("Loaded %d hygiene rows from %s", count, path)
	return count, nil
}

// record is one CSV row indexed by lower-cased header name.
type record map[string]string

func (r record) get(key string) string {
	return strings.TrimSpace(r[key])
}

func (r record) optionalFloat(key string) *float64 {
	raw := r.get(key)
	if raw == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return &v
	}
	return nil
}

func readCSV(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		row := record{}
		for i, v := range fields {
			if i < len(header) {
				row[header[i]] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
