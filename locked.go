package timesource

import (
	"sync"
	"time"
)

// Locked guards a ManualTimeSource with a read/write mutex so that it can
// be shared between goroutines. Every copy of a *Locked refers to the same
// underlying source.
type Locked struct {
	mu  sync.RWMutex
	src *ManualTimeSource
}

// NewLocked wraps src. If src is nil a fresh unset source is used.
// Callers must not touch src directly after handing it over.
func NewLocked(src *ManualTimeSource) *Locked {
	if src == nil {
		src = NewManualTimeSource()
	}
	return &Locked{src: src}
}

// Now reads the wrapped source under the read lock.
func (l *Locked) Now() (time.Time, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.src.Now()
}

// SetNow writes the wrapped source under the write lock.
func (l *Locked) SetNow(t time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src.SetNow(t)
}

func (l *Locked) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return "Locked(" + l.src.String() + ")"
}
