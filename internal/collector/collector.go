package collector

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zgpcy/timesource"
	"github.com/zgpcy/timesource/internal/logger"
	"github.com/zgpcy/timesource/internal/version"
)

// TimeSourceCollector implements prometheus.Collector for a time source
type TimeSourceCollector struct {
	source timesource.TimeSource
	mode   string
	logger *logger.Logger

	upMetric  *prometheus.Desc
	nowMetric *prometheus.Desc
	notSet    *prometheus.CounterVec
	buildInfo *prometheus.GaugeVec
}

// NewTimeSourceCollector creates a collector that queries src on every scrape
func NewTimeSourceCollector(src timesource.TimeSource, mode string, log *logger.Logger) *TimeSourceCollector {
	notSet := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timesource_not_set_total",
			Help: "Number of scrapes that found the time source unset",
		},
		[]string{"mode"},
	)
	// Pre-create the series so it is exported as 0 before the first miss
	notSet.WithLabelValues(mode)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "timesource_build_info",
			Help: "Build version information",
		},
		[]string{"version", "git_commit", "build_date", "go_version"},
	)
	buildInfo.With(prometheus.Labels(version.Info())).Set(1)

	return &TimeSourceCollector{
		source: src,
		mode:   mode,
		logger: log,
		upMetric: prometheus.NewDesc(
			"timesource_up",
			"Whether the time source returned a time on the last scrape (1 = yes, 0 = no)",
			[]string{"mode"},
			nil,
		),
		nowMetric: prometheus.NewDesc(
			"timesource_now_timestamp_seconds",
			"Time reported by the time source as a Unix timestamp",
			[]string{"mode"},
			nil,
		),
		notSet:    notSet,
		buildInfo: buildInfo,
	}
}

// Describe implements prometheus.Collector
func (c *TimeSourceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.upMetric
	ch <- c.nowMetric
	c.notSet.Describe(ch)
	c.buildInfo.Describe(ch)
}

// Collect implements prometheus.Collector
func (c *TimeSourceCollector) Collect(ch chan<- prometheus.Metric) {
	now, err := c.source.Now()

	upValue := 1.0
	if err != nil {
		upValue = 0
		if errors.Is(err, timesource.ErrDateTimeNotSet) {
			c.notSet.WithLabelValues(c.mode).Inc()
		}
		c.logger.Debug("Time source unavailable during scrape", "mode", c.mode, "error", err)
	}

	ch <- prometheus.MustNewConstMetric(c.upMetric, prometheus.GaugeValue, upValue, c.mode)

	if err == nil {
		ch <- prometheus.MustNewConstMetric(
			c.nowMetric,
			prometheus.GaugeValue,
			unixSeconds(now),
			c.mode,
		)
	}

	c.notSet.Collect(ch)
	c.buildInfo.Collect(ch)
}

// unixSeconds avoids UnixNano, which overflows outside 1678-2262
func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
