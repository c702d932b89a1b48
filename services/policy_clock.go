package services

import (
	"SafeTube/models"
	"time"
)

const minutesPerDay = 24 * 60

// PolicyStatus is the wall-clock part of the screen-time verdict.
type PolicyStatus struct {
	WithinBedtime       bool `json:"within_bedtime"`
	WithinAllowedWindow bool `json:"within_allowed_window"`
	// MinutesRemaining is the time left before bedtime starts or the current window closes.
	// It is only meaningful when Bounded is true.
	MinutesRemaining int  `json:"minutes_remaining"`
	Bounded          bool `json:"bounded"`
}

// Allowed reports whether the clock permits access right now.
func (p PolicyStatus) Allowed() bool {
	return !p.WithinBedtime && p.WithinAllowedWindow
}

// EvaluatePolicy checks now against the rule's bedtime and allowed windows. It does no I/O.
//
// Allowed windows are a per-day whitelist: when the rule has windows for now's weekday, now
// must fall inside one of them; a day without windows is unrestricted apart from bedtime.
// Unparsable times fail closed.
func EvaluatePolicy(now time.Time, rule models.ScreenTimeRule) PolicyStatus {
	minute := now.Hour()*60 + now.Minute()
	status := PolicyStatus{WithinAllowedWindow: true}

	if rule.Bedtime.Enabled {
		start, errStart := models.ParseClock(rule.Bedtime.Start)
		end, errEnd := models.ParseClock(rule.Bedtime.End)
		switch {
		case errStart != nil || errEnd != nil:
			status.WithinBedtime = true
		case inClockRange(minute, start, end):
			status.WithinBedtime = true
		default:
			status.bound((start - minute + minutesPerDay) % minutesPerDay)
		}
	}

	todays := windowsFor(rule.AllowedWindows, now.Weekday())
	if len(todays) > 0 {
		status.WithinAllowedWindow = false
		best := -1
		for _, window := range todays {
			start, errStart := models.ParseClock(window.Start)
			end, errEnd := models.ParseClock(window.End)
			if errStart != nil || errEnd != nil || !inClockRange(minute, start, end) {
				continue
			}
			left := end - minute
			if start > end && minute >= start {
				// the window's early-morning part belongs to the same weekday, not the next one
				left = minutesPerDay - minute
			}
			if left > best {
				best = left
			}
		}
		if best >= 0 {
			status.WithinAllowedWindow = true
			status.bound(best)
		}
	}

	if !status.Allowed() {
		status.MinutesRemaining = 0
		status.Bounded = true
	}
	return status
}

func (p *PolicyStatus) bound(minutes int) {
	if !p.Bounded || minutes < p.MinutesRemaining {
		p.MinutesRemaining = minutes
		p.Bounded = true
	}
}

// inClockRange reports whether minute is in [start, end), wrapping past midnight when end < start.
func inClockRange(minute, start, end int) bool {
	switch {
	case start == end:
		return false
	case start < end:
		return minute >= start && minute < end
	default:
		return minute >= start || minute < end
	}
}

func windowsFor(windows []models.AllowedWindow, day time.Weekday) []models.AllowedWindow {
	var out []models.AllowedWindow
	for _, window := range windows {
		if window.DayOfWeek == int(day) {
			out = append(out, window)
		}
	}
	return out
}
