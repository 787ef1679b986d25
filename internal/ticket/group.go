package ticket

import (
	"fmt"
	"sort"
	"time"
)

// UndatedLabel is what the backend's UI calls the bucket of tickets
// without a LastUpdated timestamp.
const UndatedLabel = "Без даты"

// Day identifies one calendar-day bucket. The zero value is the
// distinct "no date" bucket, which always orders after every dated
// bucket instead of being mixed into a string sort.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

func (d Day) Undated() bool { return d.Year == 0 }

// Key renders the day as an ISO calendar date, or UndatedLabel for the
// no-date bucket. Used for export file names and group headers.
func (d Day) Key() string {
	if d.Undated() {
		return UndatedLabel
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}

// Before orders days descending-ready: later days are "smaller" so that
// a plain sort puts the newest group first, with the undated bucket
// always last.
func (d Day) Before(other Day) bool {
	if d.Undated() {
		return false
	}
	if other.Undated() {
		return true
	}
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	if d.Month != other.Month {
		return d.Month > other.Month
	}
	return d.Date > other.Date
}

func DayOf(ts time.Time) Day {
	y, m, dd := ts.Local().Date()
	return Day{Year: y, Month: m, Date: dd}
}

// ParseDay reads a YYYY-MM-DD date-picker value in local time.
func ParseDay(s string) (Day, error) {
	ts, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(ts), nil
}

// Group is one calendar-day bucket of tickets, in input order.
type Group struct {
	Day     Day
	Tickets []Ticket
}

// GroupByDay buckets tickets by the calendar day of LastUpdated, newest
// day first, undated last. Every input ticket lands in exactly one
// group and relative order within a group is preserved.
func GroupByDay(tickets []Ticket) []Group {
	byDay := make(map[Day][]Ticket)
	order := make([]Day, 0, 16)
	for _, t := range tickets {
		var d Day
		if ts, ok := t.UpdatedAt(); ok {
			d = DayOf(ts)
		}
		if _, seen := byDay[d]; !seen {
			order = append(order, d)
		}
		byDay[d] = append(byDay[d], t)
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	groups := make([]Group, 0, len(order))
	for _, d := range order {
		groups = append(groups, Group{Day: d, Tickets: byDay[d]})
	}
	return groups
}

// FormatDayLabel renders a group header the way the backend's UI does:
// "Сегодня" and "Вчера" for the two most recent days, otherwise the
// plain date.
func FormatDayLabel(d Day, now time.Time) string {
	if d.Undated() {
		return UndatedLabel
	}
	today := DayOf(now)
	yesterday := DayOf(now.AddDate(0, 0, -1))
	switch d {
	case today:
		return "Сегодня"
	case yesterday:
		return "Вчера"
	}
	return fmt.Sprintf("%02d.%02d.%04d", d.Date, int(d.Month), d.Year)
}
