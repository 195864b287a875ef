package service

import (
	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/sirupsen/logrus"
)

// PriceFeed supplies the most recent personal care CPI observation
// from an external statistics feed.
type PriceFeed interface {
	LatestPersonalCareCPI() (*models.PriceSample, error)
}

// PriceSink accepts refreshed price samples; existing dates are
// overwritten.
type PriceSink interface {
	UpsertPriceSample(sample models.PriceSample) error
}

// AlertSender notifies an operator about a failed refresh run.
type AlertSender interface {
	SendRefreshFailure(job string, jobErr error) error
}

// RefreshService keeps the price_index table current by pulling the
// latest observation from the stats feed on a schedule.
type RefreshService struct {
	sink   PriceSink
	feed   PriceFeed
	alerts AlertSender
	log    *logrus.Logger
}

// NewRefreshService initializes a new refresh service. alerts may be
// nil when no alert address is configured.
func NewRefreshService(sink PriceSink, feed PriceFeed, alerts AlertSender, log *logrus.Logger) *RefreshService {
	return &RefreshService{sink: sink, feed: feed, alerts: alerts, log: log}
}

// Run fetches the latest CPI observation and upserts it. Intended as a
// cron job body; failures are logged and alerted, never fatal.
func (r *RefreshService) Run() {
	sample, err := r.feed.LatestPersonalCareCPI()
	if err != nil {
		r.fail(err)
		return
	}
	if err := r.sink.UpsertPriceSample(*sample); err != nil {
		r.fail(err)
		return
	}
	r.log.Infof("Price index refreshed: %s = %.1f", sample.Date.Format("2006-01-02"), sample.CPIIndex)
}

func (r *RefreshService) fail(err error) {
	r.log.Errorf("Price index refresh failed: %v", err)
	if r.alerts == nil {
		return
	}
	if sendErr := r.alerts.SendRefreshFailure("price-index-refresh", err); sendErr != nil {
		r.log.Errorf("Failed to send refresh alert: %v", sendErr)
	}
}
