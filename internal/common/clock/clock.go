package clock

import "time"

// Clock abstracts time for components that cache or back off, so tests can
// drive it.
type Clock interface {
	Now() time.Time
}

// Sleeper abstracts waiting so retry loops are testable without real delays.
type Sleeper interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// New returns the wall clock.
func New() Clock { return realClock{} }

// NewSleeper returns a time.Sleep backed Sleeper.
func NewSleeper() Sleeper { return realSleeper{} }

// Fake is a manually advanced clock for tests.
type Fake struct {
	Current time.Time
}

func (f *Fake) Now() time.Time { return f.Current }

// Advance moves the fake clock forward.
func (f *Fake) Advance(d time.Duration) { f.Current = f.Current.Add(d) }
