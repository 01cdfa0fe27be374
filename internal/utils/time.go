package util

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// LocalDateTime serialises a timestamp in the application timezone without
// an offset, the format the web client displays as is.
type LocalDateTime struct {
	time.Time
}

const (
	layout     = "2006-01-02T15:04:05"
	dateLayout = "January 2, 2006"
)

var (
	locMu    sync.RWMutex
	location = time.UTC
)

// SetLocation switches the application timezone. An empty name keeps UTC.
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", name, err)
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
	return nil
}

func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

// FormatDate renders t as "January 2, 2006" in the application timezone.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format(dateLayout)
}

func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t}
}

func (ldt *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.ParseInLocation(layout, s, Location())
	if err != nil {
		return err
	}
	ldt.Time = t
	return nil
}

func (ldt LocalDateTime) MarshalJSON() ([]byte, error) {
	if ldt.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ldt.In(Location()).Format(layout) + `"`), nil
}
