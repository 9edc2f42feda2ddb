// Package temporal implements the engine's temporal sampler (C2): posting
// date and time sampling that respects day-of-week weighting, holiday
// calendars, period-end spikes, and industry seasonality overlays.
package temporal

import (
	"fmt"
	"time"

	"github.com/synthledger/engine/rng"
)

// DayWeights holds the day-of-week activity multipliers.
type DayWeights struct {
	Monday    float64
	Tuesday   float64
	Wednesday float64
	Thursday  float64
	Friday    float64
	// WeekendActivity scales Saturday/Sunday in [0,1].
	WeekendActivity float64
}

// DefaultDayWeights mirrors the spec's stated defaults: Monday backlog
// over-weighting, Friday wind-down, weekends mostly quiet.
func DefaultDayWeights() DayWeights {
	return DayWeights{
		Monday: 1.3, Tuesday: 1.0, Wednesday: 1.0, Thursday: 1.0, Friday: 0.85,
		WeekendActivity: 0.1,
	}
}

func (w DayWeights) forWeekday(d time.Weekday) float64 {
	switch d {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	default:
		return w.WeekendActivity
	}
}

// Calendar holds a holiday set and the multiplier applied to holiday dates.
type Calendar struct {
	Holidays           map[string]bool // "YYYY-MM-DD" -> true
	HolidayMultiplier  float64
	PeriodEndLeadDays  int
	SeasonalByMonth    map[time.Month]float64 // optional industry overlay
}

// DefaultCalendar returns a calendar with no holidays and the spec's
// default holiday multiplier and lead-days.
func DefaultCalendar() Calendar {
	return Calendar{
		Holidays:          map[string]bool{},
		HolidayMultiplier: 0.05,
		PeriodEndLeadDays: 5,
	}
}

// Validate fails fast on invalid calendar configuration, per §4.2's
// "invalid calendar configurations fail fast at sampler construction."
func (c Calendar) Validate() error {
	if c.HolidayMultiplier < 0 || c.HolidayMultiplier > 1 {
		return fmt.Errorf("temporal: holiday multiplier %v out of [0,1]", c.HolidayMultiplier)
	}
	if c.PeriodEndLeadDays < 0 {
		return fmt.Errorf("temporal: negative period-end lead days %d", c.PeriodEndLeadDays)
	}
	return nil
}

func (c Calendar) isHoliday(d time.Time) bool {
	return c.Holidays[d.Format("2006-01-02")]
}

// periodEndMultiplier returns the highest-applicable period-end spike
// multiplier for date d, or 1.0 if none applies. Year-end beats
// quarter-end beats month-end (mutually exclusive, highest wins).
func (c Calendar) periodEndMultiplier(d time.Time) float64 {
	lastOfMonth := lastDayOfMonth(d)
	daysFromEnd := lastOfMonth.Day() - d.Day()
	if daysFromEnd >= c.PeriodEndLeadDays {
		return 1.0
	}
	isQuarterEndMonth := d.Month() == time.March || d.Month() == time.June ||
		d.Month() == time.September || d.Month() == time.December
	switch {
	case d.Month() == time.December:
		return 6.0
	case isQuarterEndMonth:
		return 4.0
	default:
		return 2.5
	}
}

func lastDayOfMonth(d time.Time) time.Time {
	firstOfNext := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, d.Location())
	return firstOfNext.AddDate(0, 0, -1)
}

// Sampler produces posting dates/times for a single stream.
type Sampler struct {
	source     *rng.Source
	dayWeights DayWeights
	calendar   Calendar
	peakHours  []int
	peakWeight float64
	afterHoursP float64
	defaultFallback time.Time
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithDayWeights overrides the default day-of-week weights.
func WithDayWeights(w DayWeights) Option { return func(s *Sampler) { s.dayWeights = w } }

// WithCalendar overrides the default calendar.
func WithCalendar(c Calendar) Option { return func(s *Sampler) { s.calendar = c } }

// WithPeakHours overrides the default peak-hour set and weight.
func WithPeakHours(hours []int, weight float64) Option {
	return func(s *Sampler) { s.peakHours = hours; s.peakWeight = weight }
}

// WithAfterHoursProbability overrides the default after-hours posting rate.
func WithAfterHoursProbability(p float64) Option {
	return func(s *Sampler) { s.afterHoursP = p }
}

// WithFallbackDate sets the deterministic fallback used when an unparseable
// date is requested, per §4.2's failure semantics.
func WithFallbackDate(d time.Time) Option { return func(s *Sampler) { s.defaultFallback = d } }

// NewSampler constructs a Sampler bound to the given stream source.
// Returns an error if the calendar configuration is invalid.
func NewSampler(source *rng.Source, opts ...Option) (*Sampler, error) {
	s := &Sampler{
		source:      source,
		dayWeights:  DefaultDayWeights(),
		calendar:    DefaultCalendar(),
		peakHours:   []int{9, 10, 11, 14, 15, 16},
		peakWeight:  1.5,
		afterHoursP: 0.05,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.calendar.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Multiplier computes M(d): the product of day-of-week, holiday,
// period-end, and seasonal-overlay factors for date d.
func (s *Sampler) Multiplier(d time.Time) float64 {
	m := s.dayWeights.forWeekday(d.Weekday())
	if s.calendar.isHoliday(d) {
		m *= s.calendar.HolidayMultiplier
	}
	m *= s.calendar.periodEndMultiplier(d)
	if s.calendar.SeasonalByMonth != nil {
		if seasonal, ok := s.calendar.SeasonalByMonth[d.Month()]; ok {
			m *= seasonal
		}
	}
	return m
}

// ExpectedCount returns round(dailyAverage × M(d)) per §4.2.
func (s *Sampler) ExpectedCount(dailyAverage float64, d time.Time) int {
	v := dailyAverage * s.Multiplier(d)
	return int(v + 0.5)
}

// SampleDate samples one posting date in [start, end] (inclusive) by
// inverse-CDF over the weight vector M(d), consuming exactly one draw
// from the stream regardless of range size.
func (s *Sampler) SampleDate(start, end time.Time) (time.Time, error) {
	if end.Before(start) {
		return s.defaultFallback, fmt.Errorf("temporal: range end %v before start %v", end, start)
	}
	days := int(end.Sub(start).Hours()/24) + 1
	weights := make([]float64, days)
	total := 0.0
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		weights[i] = s.Multiplier(d)
		total += weights[i]
	}
	if total <= 0 {
		return s.defaultFallback, fmt.Errorf("temporal: all weights zero in range [%v, %v]", start, end)
	}
	target := s.source.NextFloat64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return start.AddDate(0, 0, i), nil
		}
	}
	return start.AddDate(0, 0, days-1), nil
}

// SampleTime samples an hour:minute for a posting event. automated
// controls whether this is a human-posted (peak-hour weighted) or an
// automated batch posting (mostly off-hours).
func (s *Sampler) SampleTime(automated bool) (hour, minute int) {
	minute = int(s.source.GenRange(0, 59))
	if automated {
		if s.source.GenBool(0.70) {
			return offHoursBatchHour(s.source), minute
		}
		return int(s.source.GenRange(6, 20)), minute
	}
	if s.source.GenBool(s.afterHoursP) {
		return afterHoursHour(s.source), minute
	}
	if s.source.GenBool(weightedPeakProbability(s.peakWeight)) {
		return s.peakHours[s.source.Choose(len(s.peakHours))], minute
	}
	return int(s.source.GenRange(7, 18)), minute
}

// weightedPeakProbability converts a peak-hour over-weighting factor into
// the probability a draw lands in the peak-hour set versus the rest of
// the working window, assuming a 6-peak / 6-normal 12-hour day.
func weightedPeakProbability(peakWeight float64) float64 {
	const peakHourCount, normalHourCount = 6.0, 6.0
	peakMass := peakHourCount * peakWeight
	return peakMass / (peakMass + normalHourCount)
}

func offHoursBatchHour(s *rng.Source) int {
	if s.GenBool(0.5) {
		return int(s.GenRange(0, 5))
	}
	return int(s.GenRange(21, 23))
}

func afterHoursHour(s *rng.Source) int {
	if s.GenBool(0.5) {
		return int(s.GenRange(0, 6))
	}
	return int(s.GenRange(19, 23))
}
