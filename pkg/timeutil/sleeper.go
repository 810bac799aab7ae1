package timeutil

import "time"

// Sleeper abstracts time.Sleep so callers on the hot crawl path can be
// driven deterministically in tests.
type Sleeper interface {
	Sleep(d time.Duration)
}

// RealSleeper sleeps using the wall clock.
type RealSleeper struct{}

func NewRealSleeper() RealSleeper {
	return RealSleeper{}
}

func (RealSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

var _ Sleeper = RealSleeper{}
