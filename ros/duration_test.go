package ros

import (
	"testing"
	"time"
)

func TestNewDuration(t *testing.T) {
	d := NewDuration(1, 2)
	if d.Sec != 1 || d.NSec != 2 {
		t.Error(d)
	}
}

func TestNewDurationNormalizesWholeSecond(t *testing.T) {
	d := NewDuration(0, 1000000000)
	if d.Sec != 1 || d.NSec != 0 {
		t.Error(d)
	}
	if d.ToSec() != 1.0 {
		t.Error(d.ToSec())
	}
}

func TestNegativeDuration(t *testing.T) {
	d := NewDuration(0, -250000000)
	if d.Sec != -1 || d.NSec != 750000000 {
		t.Error(d)
	}
	if d.ToNSec() != -250000000 {
		t.Error(d.ToNSec())
	}
}

func TestDurationAdd(t *testing.T) {
	d1 := DurationFromGo(500 * time.Millisecond)
	d2 := DurationFromGo(800 * time.Millisecond)

	d3 := d1.Add(d2)
	if d3.Sec != 1 {
		t.Error(d3.Sec)
	}
	if d3.NSec != 300000000 {
		t.Error(d3.NSec)
	}
}

func TestDurationSub(t *testing.T) {
	d1 := DurationFromGo(1300 * time.Millisecond)
	d2 := DurationFromGo(500 * time.Millisecond)

	d3 := d1.Sub(d2)
	if d3.Sec != 0 || d3.NSec != 800000000 {
		t.Error(d3)
	}
	if d2.Sub(d1).Cmp(NewDuration(0, 0)) != -1 {
		t.Error("expected negative difference")
	}
}

func TestDurationFromSec(t *testing.T) {
	d := DurationFromSec(1.5)
	if d.Sec != 1 || d.NSec != 500000000 {
		t.Error(d)
	}
	if d.Go() != 1500*time.Millisecond {
		t.Error(d.Go())
	}
}

func TestDurationSleep(t *testing.T) {
	d := NewDuration(0, 100000000)
	start := time.Now()
	d.Sleep()
	elapsed := time.Since(start)
	if elapsed < d.Go() {
		t.Errorf("slept %v, expected at least %v", elapsed, d.Go())
	}
}

func TestTimeArithmetic(t *testing.T) {
	t1 := NewTime(10, 900000000)
	t2 := t1.Add(NewDuration(0, 200000000))
	if t2.Sec != 11 || t2.NSec != 100000000 {
		t.Error(t2)
	}
	if diff := t2.Diff(t1); diff.Cmp(NewDuration(0, 200000000)) != 0 {
		t.Error(diff)
	}
	if back := t2.Sub(NewDuration(0, 200000000)); back.Cmp(t1) != 0 {
		t.Error(back)
	}
}

func TestTimeRoundTripsGoTime(t *testing.T) {
	now := time.Unix(1700000000, 123456789)
	rt := TimeFromGo(now)
	if !rt.Go().Equal(now) {
		t.Error(rt.Go())
	}
	if Now().IsZero() {
		t.Error("Now() is zero")
	}
}

func TestTimeOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewTime(0, 0).Sub(NewDuration(1, 0))
}
