package period

import "time"

// WeeklyPeriod is the recurring week containing a given instant.
type WeeklyPeriod struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p WeeklyPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Anchor fixes the weekly boundary to a weekday and hour in a fixed zone.
// The zone is deliberately not the user's local zone so that week-over-week
// comparisons stay stable across travel and DST.
type Anchor struct {
	Weekday  time.Weekday
	Hour     int
	Location *time.Location
}

// DefaultAnchor is Tuesday 08:00 KST, matching the observed Claude weekly
// usage reset.
func DefaultAnchor() Anchor {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return Anchor{Weekday: time.Tuesday, Hour: 8, Location: loc}
}

// CurrentWeek returns the anchored week containing now. On the anchor weekday
// before the anchor hour, the previous week's anchor still applies. The
// returned period always satisfies Start <= now <= End.
func CurrentWeek(now time.Time, anchor Anchor) WeeklyPeriod {
	local := now.In(anchor.Location)
	days := (int(local.Weekday()) - int(anchor.Weekday) + 7) % 7
	if days == 0 && local.Hour() < anchor.Hour {
		days = 7
	}
	start := time.Date(local.Year(), local.Month(), local.Day()-days, anchor.Hour, 0, 0, 0, anchor.Location)
	return WeeklyPeriod{
		Start: start,
		End:   start.AddDate(0, 0, 7).Add(-time.Second),
	}
}
