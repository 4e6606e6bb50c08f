package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule determines when a periodic job should run.
type Schedule interface {
	Next(from time.Time) time.Time
	String() string
}

// intervalSchedule runs at fixed intervals
type intervalSchedule struct {
	every time.Duration
}

func (s intervalSchedule) Next(from time.Time) time.Time {
	return from.Add(s.every)
}

func (s intervalSchedule) String() string {
	return fmt.Sprintf("every %v", s.every)
}

// hourlySchedule runs every hour at the given minute
type hourlySchedule struct {
	minute int
}

func (s hourlySchedule) Next(from time.Time) time.Time {
	next := time.Date(
		from.Year(), from.Month(), from.Day(),
		from.Hour(), s.minute, 0, 0, from.Location(),
	)
	if !next.After(from) {
		next = next.Add(time.Hour)
	}
	return next
}

func (s hourlySchedule) String() string {
	return fmt.Sprintf("hourly at :%02d", s.minute)
}

// dailySchedule runs once per day at hour:minute in loc
type dailySchedule struct {
	hour   int
	minute int
	loc    *time.Location
}

func (s dailySchedule) Next(from time.Time) time.Time {
	local := from.In(s.loc)
	next := time.Date(
		local.Year(), local.Month(), local.Day(),
		s.hour, s.minute, 0, 0, s.loc,
	)
	if !next.After(local) {
		next = time.Date(
			local.Year(), local.Month(), local.Day()+1,
			s.hour, s.minute, 0, 0, s.loc,
		)
	}
	return next
}

func (s dailySchedule) String() string {
	return fmt.Sprintf("daily at %02d:%02d %s", s.hour, s.minute, s.loc)
}

// Every runs at a fixed interval. Non-positive intervals are raised to one second.
func Every(d time.Duration) Schedule {
	if d <= 0 {
		d = time.Second
	}
	return intervalSchedule{every: d}
}

// HourlyAt runs every hour at minute.
func HourlyAt(minute int) Schedule {
	return hourlySchedule{minute: clamp(minute, 0, 59)}
}

// DailyAt runs once a day at hour:minute in loc. A nil loc means UTC.
func DailyAt(hour, minute int, loc *time.Location) Schedule {
	if loc == nil {
		loc = time.UTC
	}
	return dailySchedule{hour: clamp(hour, 0, 23), minute: clamp(minute, 0, 59), loc: loc}
}

// ParseClock parses "HH:MM" in 24-hour form.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
