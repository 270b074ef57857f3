package ros

import (
	"math"
	"time"
)

// Duration is a signed ROS duration. NSec is always in [0, 1e9).
type Duration struct {
	Sec  int32
	NSec int32
}

// NewDuration normalizes nsec into sec, so NewDuration(0, 1e9) is one
// second.
func NewDuration(sec int32, nsec int32) Duration {
	return durationFrom(int64(sec), int64(nsec))
}

// DurationFromSec converts fractional seconds.
func DurationFromSec(sec float64) Duration {
	return durationFrom(splitSeconds(sec))
}

// DurationFromGo converts a time.Duration.
func DurationFromGo(d time.Duration) Duration {
	return durationFrom(0, d.Nanoseconds())
}

func durationFrom(sec int64, nsec int64) Duration {
	sec, nsec = normalizeTemporal(sec, nsec)
	checkRange(sec, math.MinInt32, math.MaxInt32)
	return Duration{int32(sec), int32(nsec)}
}

func (d Duration) IsZero() bool {
	return d.Sec == 0 && d.NSec == 0
}

func (d Duration) ToNSec() int64 {
	return int64(d.Sec)*secondInNanoseconds + int64(d.NSec)
}

func (d Duration) ToSec() float64 {
	return float64(d.Sec) + float64(d.NSec)*1e-9
}

// Go converts to a time.Duration.
func (d Duration) Go() time.Duration {
	return time.Duration(d.ToNSec())
}

func (d Duration) Add(other Duration) Duration {
	return durationFrom(int64(d.Sec)+int64(other.Sec), int64(d.NSec)+int64(other.NSec))
}

func (d Duration) Sub(other Duration) Duration {
	return durationFrom(int64(d.Sec)-int64(other.Sec), int64(d.NSec)-int64(other.NSec))
}

func (d Duration) Cmp(other Duration) int {
	return cmpInt64(d.ToNSec(), other.ToNSec())
}

// Sleep pauses the calling goroutine for d. Negative durations return
// immediately.
func (d Duration) Sleep() {
	if d.ToNSec() > 0 {
		time.Sleep(d.Go())
	}
}
