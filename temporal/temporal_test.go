package temporal

import (
	"testing"
	"time"

	"github.com/synthledger/engine/rng"
)

func newTestSampler(t *testing.T) *Sampler {
	t.Helper()
	s, err := NewSampler(rng.NewSource(1, rng.TagTemporal, 0))
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	return s
}

func TestNewSamplerRejectsInvalidCalendar(t *testing.T) {
	_, err := NewSampler(rng.NewSource(1, rng.TagTemporal, 0),
		WithCalendar(Calendar{HolidayMultiplier: 2.0}))
	if err == nil {
		t.Error("expected error for holiday multiplier out of range")
	}
}

func TestMultiplierWeekendIsLow(t *testing.T) {
	s := newTestSampler(t)
	sat := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) // Saturday
	mon := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC) // Monday
	if s.Multiplier(sat) >= s.Multiplier(mon) {
		t.Errorf("expected weekend multiplier < Monday multiplier: sat=%v mon=%v",
			s.Multiplier(sat), s.Multiplier(mon))
	}
}

func TestMultiplierYearEndSpike(t *testing.T) {
	s := newTestSampler(t)
	yearEnd := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	midMonth := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	if s.Multiplier(yearEnd) <= s.Multiplier(midMonth) {
		t.Error("expected year-end to spike above mid-month")
	}
}

func TestSampleDateWithinRange(t *testing.T) {
	s := newTestSampler(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		d, err := s.SampleDate(start, end)
		if err != nil {
			t.Fatalf("SampleDate: %v", err)
		}
		if d.Before(start) || d.After(end) {
			t.Fatalf("sampled date %v outside [%v,%v]", d, start, end)
		}
	}
}

func TestSampleDateRejectsInvertedRange(t *testing.T) {
	s := newTestSampler(t)
	_, err := s.SampleDate(time.Now(), time.Now().AddDate(0, 0, -1))
	if err == nil {
		t.Error("expected error for end before start")
	}
}

func TestExpectedCount(t *testing.T) {
	s := newTestSampler(t)
	d := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC) // Monday, weight 1.3
	got := s.ExpectedCount(1000, d)
	if got < 1000 {
		t.Errorf("expected Monday count to exceed baseline, got %d", got)
	}
}

func TestSampleTimeDeterministic(t *testing.T) {
	a, err := NewSampler(rng.NewSource(5, rng.TagTemporal, 0))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSampler(rng.NewSource(5, rng.TagTemporal, 0))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		h1, m1 := a.SampleTime(false)
		h2, m2 := b.SampleTime(false)
		if h1 != h2 || m1 != m2 {
			t.Fatalf("non-deterministic time sampling: (%d,%d) != (%d,%d)", h1, m1, h2, m2)
		}
	}
}
