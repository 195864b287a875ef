package service

import (
	"errors"
	"testing"
	"time"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/JiaXinLow/period-poverty-api/internal/repository"
)

type stubFeed struct {
	sample *models.PriceSample
	err    error
}

func (f *stubFeed) LatestPersonalCareCPI() (*models.PriceSample, error) {
	return f.sample, f.err
}

type stubAlerts struct {
	sent []string
}

func (a *stubAlerts) SendRefreshFailure(job string, jobErr error) error {
	a.sent = append(a.sent, job)
	return nil
}

func TestRefreshService_UpsertsLatestSample(t *testing.T) {
	store := repository.NewMemoryStore()
	date, _ := time.Parse("2006-01-02", "2025-12-01")
	feed := &stubFeed{sample: &models.PriceSample{Date: date, CPIIndex: 119.8}}
	alerts := &stubAlerts{}

	NewRefreshService(store, feed, alerts, testLogger()).Run()

	latest, err := store.LatestPriceSample()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest == nil || latest.CPIIndex != 119.8 {
		t.Fatalf("sample not stored: %+v", latest)
	}
	if len(alerts.sent) != 0 {
		t.Errorf("no alert expected on success, got %v", alerts.sent)
	}
}

func TestRefreshService_AlertsOnFeedFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	feed := &stubFeed{err: errors.New("feed down")}
	alerts := &stubAlerts{}

	NewRefreshService(store, feed, alerts, testLogger()).Run()

	if len(alerts.sent) != 1 {
		t.Fatalf("expected one alert, got %v", alerts.sent)
	}
	latest, err := store.LatestPriceSample()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != nil {
		t.Errorf("nothing should be stored on failure, got %+v", latest)
	}
}

func TestRefreshService_NilAlertsTolerated(t *testing.T) {
	feed := &stubFeed{err: errors.New("feed down")}

	// Must not panic without an alert sender configured.
	NewRefreshService(repository.NewMemoryStore(), feed, nil, testLogger()).Run()
}
