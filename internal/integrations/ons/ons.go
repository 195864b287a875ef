package ons

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/config"
	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// Client fetches the personal care CPI series from the ONS time-series
// XML feed.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new ONS feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.ONSFeedURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the raw feed document
func (c *Client) fetch() ([]byte, error) {
	req, err := http.NewRequest("GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("ONS XML response: %s", string(body))

	return body, nil
}

// parseObservations extracts (date, value, mom, yoy) tuples from the
// feed document. Observations carry a month element like "2025-12".
func (c *Client) parseObservations(rawBody []byte) ([]models.PriceSample, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	obsElements := doc.FindElements("//timeseries/months/month")
	if len(obsElements) == 0 {
		return nil, fmt.Errorf("no observations found in XML")
	}

	var samples []models.PriceSample
	for _, el := range obsElements {
		dateEl := el.FindElement("./date")
		valueEl := el.FindElement("./value")
		if dateEl == nil || valueEl == nil {
			continue
		}
		// Month dates anchor to the first of the month.
		date, err := time.Parse("2006-01", dateEl.Text())
		if err != nil {
			return nil, fmt.Errorf("failed to parse observation date %q: %v", dateEl.Text(), err)
		}
		value, err := strconv.ParseFloat(valueEl.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse observation value %q: %v", valueEl.Text(), err)
		}
		sample := models.PriceSample{Date: date, CPIIndex: value}
		if el := el.FindElement("./mom"); el != nil {
			if v, err := strconv.ParseFloat(el.Text(), 64); err == nil {
				sample.PctChangeMoM = &v
			}
		}
		if el := el.FindElement("./yoy"); el != nil {
			if v, err := strconv.ParseFloat(el.Text(), 64); err == nil {
				sample.PctChangeYoY = &v
			}
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no usable observations found in XML")
	}
	return samples, nil
}

// LatestPersonalCareCPI retrieves the most recent CPI observation from
// the feed.
func (c *Client) LatestPersonalCareCPI() (*models.PriceSample, error) {
	body, err := c.fetch()
	if err != nil {
		return nil, err
	}

	samples, err := c.parseObservations(body)
	if err != nil {
		return nil, err
	}

	latest := samples[0]
	for _, s := range samples[1:] {
		if s.Date.After(latest.Date) {
			latest = s
		}
	}

	c.log.Infof("Retrieved CPI observation: %s = %.1f", latest.Date.Format("2006-01"), latest.CPIIndex)
	return &latest, nil
}
