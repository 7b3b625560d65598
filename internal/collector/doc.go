// Package collector implements a Prometheus collector for a time source.
//
// The collector queries its timesource.TimeSource once per scrape and
// exposes:
//   - timesource_up: 1 if the source returned a time, 0 otherwise
//   - timesource_now_timestamp_seconds: the reported time, omitted when unset
//   - timesource_not_set_total: scrapes that hit ErrDateTimeNotSet
//   - timesource_build_info: build version labels
//
// Example usage:
//
//	src := timesource.NewLocked(nil)
//	prometheus.MustRegister(collector.NewTimeSourceCollector(src, "manual", log))
package collector
