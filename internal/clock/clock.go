package clock

import (
	"math"
	"sync"
	"time"
)

// Clock supplies the current instant in the bot's reference timezone.
// All day-boundary and expiry math goes through it.
type Clock interface {
	Now() time.Time
}

type Zone struct {
	loc *time.Location
}

func New(tz string) (*Zone, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &Zone{loc: loc}, nil
}

func (z *Zone) Now() time.Time { return time.Now().In(z.loc) }

// Day is the calendar-day key used by the bonus ledger.
func Day(t time.Time) string { return t.Format("2006-01-02") }

// NextReset is the next local midnight plus a small grace so the reset
// never lands on the previous day.
func NextReset(now time.Time) time.Time {
	y, m, d := now.AddDate(0, 0, 1).Date()
	return time.Date(y, m, d, 0, 0, 5, 0, now.Location())
}

// DaysUntil floors, so an expiry that passed hours ago counts as -1,
// keeping just-expired users out of the 0..N reminder window.
func DaysUntil(now, t time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

// Fake is a settable clock for tests.
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

func NewFake(t time.Time) *Fake { return &Fake{t: t} }

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = t
}

func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}
