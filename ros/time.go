package ros

import (
	"math"
	gotime "time"
)

// Time is a ROS time value: seconds and nanoseconds since the epoch.
type Time struct {
	Sec  uint32
	NSec uint32
}

// NewTime normalizes nsec into sec.
func NewTime(sec uint32, nsec uint32) Time {
	return timeFrom(int64(sec), int64(nsec))
}

// Now returns the current wall clock time.
func Now() Time {
	return TimeFromGo(gotime.Now())
}

// TimeFromGo converts a time.Time.
func TimeFromGo(t gotime.Time) Time {
	return timeFrom(0, t.UnixNano())
}

func timeFrom(sec int64, nsec int64) Time {
	sec, nsec = normalizeTemporal(sec, nsec)
	checkRange(sec, 0, math.MaxUint32)
	return Time{uint32(sec), uint32(nsec)}
}

func (t Time) IsZero() bool {
	return t.Sec == 0 && t.NSec == 0
}

func (t Time) ToNSec() int64 {
	return int64(t.Sec)*secondInNanoseconds + int64(t.NSec)
}

func (t Time) ToSec() float64 {
	return float64(t.Sec) + float64(t.NSec)*1e-9
}

// Go converts to a time.Time.
func (t Time) Go() gotime.Time {
	return gotime.Unix(int64(t.Sec), int64(t.NSec))
}

// Diff returns t - from.
func (t Time) Diff(from Time) Duration {
	return durationFrom(int64(t.Sec)-int64(from.Sec), int64(t.NSec)-int64(from.NSec))
}

func (t Time) Add(d Duration) Time {
	return timeFrom(int64(t.Sec)+int64(d.Sec), int64(t.NSec)+int64(d.NSec))
}

func (t Time) Sub(d Duration) Time {
	return timeFrom(int64(t.Sec)-int64(d.Sec), int64(t.NSec)-int64(d.NSec))
}

func (t Time) Cmp(other Time) int {
	return cmpInt64(t.ToNSec(), other.ToNSec())
}
