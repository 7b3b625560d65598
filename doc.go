// Package timesource abstracts "what time is it now" so that code can be
// switched between the host clock and a manually controlled value.
//
// Production code depends on the TimeSource interface and is handed a
// RealTimeSource. Tests hand it a ManualTimeSource instead and pin the
// clock with SetNow:
//
//	src := timesource.NewManualTimeSource()
//	src.SetNow(time.Date(1970, 1, 1, 0, 1, 1, 0, time.UTC))
//
//	now, err := src.Now() // 1970-01-01T00:01:01Z, nil
//
// A ManualTimeSource that has never been set reports ErrDateTimeNotSet.
//
// Time zones are carried by the returned time.Time itself. RealTimeSource
// always answers in UTC; ManualTimeSource answers in whatever location the
// value passed to SetNow was in. Neither converts between locations.
//
// ManualTimeSource does no locking of its own. When several goroutines
// share one, wrap it with NewLocked and pass the *Locked around instead.
package timesource
