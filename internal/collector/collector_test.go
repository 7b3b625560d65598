package collector

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/zgpcy/timesource"
	"github.com/zgpcy/timesource/internal/logger"
)

// testLogger creates a logger for testing (error level to suppress test output)
func testLogger() *logger.Logger {
	return logger.New("error")
}

func TestNewTimeSourceCollector(t *testing.T) {
	c := NewTimeSourceCollector(timesource.RealTimeSource{}, "real", testLogger())

	if c == nil {
		t.Fatal("NewTimeSourceCollector returned nil")
	}
	if c.source == nil {
		t.Error("source should not be nil")
	}
	if c.upMetric == nil || c.nowMetric == nil {
		t.Error("metric descriptors should not be nil")
	}
}

func TestDescribe(t *testing.T) {
	c := NewTimeSourceCollector(timesource.RealTimeSource{}, "real", testLogger())

	ch := make(chan *prometheus.Desc, 10)
	go func() {
		c.Describe(ch)
		close(ch)
	}()

	var descs []*prometheus.Desc
	for desc := range ch {
		descs = append(descs, desc)
	}

	// up, now, not_set_total, build_info
	if len(descs) != 4 {
		t.Errorf("Describe sent %d descriptors, want 4", len(descs))
	}
}

func TestCollect_ManualSet(t *testing.T) {
	src := timesource.NewManualTimeSource()
	src.SetNow(time.Date(1970, 1, 1, 0, 1, 1, 0, time.UTC))
	c := NewTimeSourceCollector(src, "manual", testLogger())

	expected := `
# HELP timesource_up Whether the time source returned a time on the last scrape (1 = yes, 0 = no)
# TYPE timesource_up gauge
timesource_up{mode="manual"} 1
# HELP timesource_now_timestamp_seconds Time reported by the time source as a Unix timestamp
# TYPE timesource_now_timestamp_seconds gauge
timesource_now_timestamp_seconds{mode="manual"} 61
# HELP timesource_not_set_total Number of scrapes that found the time source unset
# TYPE timesource_not_set_total counter
timesource_not_set_total{mode="manual"} 0
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"timesource_up", "timesource_now_timestamp_seconds", "timesource_not_set_total")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestCollect_ManualUnset(t *testing.T) {
	c := NewTimeSourceCollector(timesource.NewManualTimeSource(), "manual", testLogger())

	expected := `
# HELP timesource_up Whether the time source returned a time on the last scrape (1 = yes, 0 = no)
# TYPE timesource_up gauge
timesource_up{mode="manual"} 0
# HELP timesource_not_set_total Number of scrapes that found the time source unset
# TYPE timesource_not_set_total counter
timesource_not_set_total{mode="manual"} 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"timesource_up", "timesource_now_timestamp_seconds", "timesource_not_set_total")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestCollect_NotSetCounterAccumulates(t *testing.T) {
	c := NewTimeSourceCollector(timesource.NewManualTimeSource(), "manual", testLogger())

	for i := 0; i < 3; i++ {
		testutil.CollectAndCount(c)
	}

	if got := testutil.ToFloat64(c.notSet); got != 3 {
		t.Errorf("timesource_not_set_total = %v, want 3", got)
	}
}

func TestCollect_RealSource(t *testing.T) {
	c := NewTimeSourceCollector(timesource.RealTimeSource{}, "real", testLogger())

	// up, now, not_set_total, build_info
	if n := testutil.CollectAndCount(c); n != 4 {
		t.Errorf("CollectAndCount = %d, want 4", n)
	}
	if got := testutil.ToFloat64(c.notSet); got != 0 {
		t.Errorf("timesource_not_set_total = %v, want 0 for real source", got)
	}
}

func TestCollect_ReflectsLaterSet(t *testing.T) {
	src := timesource.NewLocked(nil)
	c := NewTimeSourceCollector(src, "manual", testLogger())

	// up, not_set_total, build_info
	if n := testutil.CollectAndCount(c); n != 3 {
		t.Errorf("CollectAndCount before set = %d, want 3", n)
	}

	src.SetNow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if n := testutil.CollectAndCount(c); n != 4 {
		t.Errorf("CollectAndCount after set = %d, want 4", n)
	}
}

func TestConcurrency_MultipleCollectCalls(t *testing.T) {
	src := timesource.NewLocked(nil)
	c := NewTimeSourceCollector(src, "manual", testLogger())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch := make(chan prometheus.Metric, 10)
			c.Collect(ch)
			close(ch)
			for range ch {
			}
		}()
		go func(i int) {
			defer wg.Done()
			src.SetNow(base.Add(time.Duration(i) * time.Minute))
		}(i)
	}
	wg.Wait()
}

func TestUnixSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want float64
	}{
		{"epoch plus", time.Date(1970, 1, 1, 0, 0, 1, 500_000_000, time.UTC), 1.5},
		{"year 3000", time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC), 32503680000},
		{"year 1", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), -62135596800},
	}

	for _, tt := range tests {
		if got := unixSeconds(tt.in); got != tt.want {
			t.Errorf("%s: unixSeconds() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCollect_ManualFarFuture(t *testing.T) {
	src := timesource.NewManualTimeSource()
	src.SetNow(time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewTimeSourceCollector(src, "manual", testLogger())

	expected := `
# HELP timesource_now_timestamp_seconds Time reported by the time source as a Unix timestamp
# TYPE timesource_now_timestamp_seconds gauge
timesource_now_timestamp_seconds{mode="manual"} 3.250368e+10
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected), "timesource_now_timestamp_seconds")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestCollect_ManualYearOne(t *testing.T) {
	src := timesource.NewManualTimeSource()
	src.SetNow(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewTimeSourceCollector(src, "manual", testLogger())

	expected := `
# HELP timesource_now_timestamp_seconds Time reported by the time source as a Unix timestamp
# TYPE timesource_now_timestamp_seconds gauge
timesource_now_timestamp_seconds{mode="manual"} -6.21355968e+10
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected), "timesource_now_timestamp_seconds")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}
