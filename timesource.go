package timesource

import (
	"fmt"
	"time"
)

// Error is the kind of failure a TimeSource can report.
type Error int

const (
	// ErrDateTimeNotSet is returned by a manual source that was queried
	// before any value was assigned to it.
	ErrDateTimeNotSet Error = iota + 1
)

func (e Error) Error() string {
	switch e {
	case ErrDateTimeNotSet:
		return "timesource: date time not set"
	default:
		return fmt.Sprintf("timesource: unknown error %d", int(e))
	}
}

// TimeSource produces the current timestamp.
type TimeSource interface {
	Now() (time.Time, error)
}

// RealTimeSource reads the host clock and reports it in UTC.
type RealTimeSource struct{}

// Now returns the current host time in UTC. It never fails.
func (RealTimeSource) Now() (time.Time, error) {
	return time.Now().UTC(), nil
}

func (RealTimeSource) String() string {
	return "RealTimeSource(UTC)"
}

// ManualTimeSource returns whatever time was last given to SetNow.
// The zero value is ready to use and unset.
type ManualTimeSource struct {
	instant time.Time
	set     bool
}

// NewManualTimeSource returns a source with no time set.
func NewManualTimeSource() *ManualTimeSource {
	return &ManualTimeSource{}
}

// SetNow replaces the stored time. The location of t is kept as-is.
func (m *ManualTimeSource) SetNow(t time.Time) {
	m.instant = t
	m.set = true
}

// Now returns the stored time, or ErrDateTimeNotSet if SetNow was never called.
func (m *ManualTimeSource) Now() (time.Time, error) {
	if !m.set {
		return time.Time{}, ErrDateTimeNotSet
	}
	return m.instant, nil
}

func (m *ManualTimeSource) String() string {
	if !m.set {
		return "ManualTimeSource(unset)"
	}
	return "ManualTimeSource(" + m.instant.Format(time.RFC3339Nano) + ")"
}

// Func adapts a plain function to a TimeSource. It never fails.
type Func func() time.Time

// Now calls f.
func (f Func) Now() (time.Time, error) {
	return f(), nil
}

func (f Func) String() string {
	return "Func"
}
