package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Agencies operate on Caracas local time; every session date is a calendar
// date in this zone.
const TimezoneName = "America/Caracas"

// Week is an inclusive Monday..Sunday calendar range.
type Week struct {
	Start      time.Time `json:"week_start"`
	End        time.Time `json:"week_end"`
	WeekNumber int       `json:"week_number"`
	Year       int       `json:"year"`
}

// StartDate returns the week start formatted for date columns.
func (w Week) StartDate() string { return w.Start.Format("2006-01-02") }

// EndDate returns the week end formatted for date columns.
func (w Week) EndDate() string { return w.End.Format("2006-01-02") }

func caracas() *time.Location {
	loc, err := time.LoadLocation(TimezoneName)
	if err != nil {
		return time.FixedZone("VET", -4*60*60)
	}
	return loc
}

// WeekContaining computes the Monday..Sunday week holding the given moment.
func WeekContaining(t time.Time) Week {
	t = t.In(caracas())
	day := t.Weekday()
	// time.Weekday starts on Sunday; shift so Monday is day zero.
	offset := (int(day) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	year, num := start.ISOWeek()
	return Week{Start: start, End: end, WeekNumber: num, Year: year}
}

// AddWeeks shifts a week by n whole weeks, for prev/next navigation.
func AddWeeks(w Week, n int) Week {
	return WeekContaining(w.Start.AddDate(0, 0, 7*n))
}

// CurrentWeek asks the database for the canonical week boundaries and falls
// back to a local Caracas-time computation when the call fails.
func CurrentWeek(ctx context.Context, pool *pgxpool.Pool) (Week, error) {
	if pool != nil {
		var w Week
		err := pool.QueryRow(ctx, `SELECT week_start, week_end, week_number, year FROM get_current_week_boundaries()`).
			Scan(&w.Start, &w.End, &w.WeekNumber, &w.Year)
		if err == nil {
			return w, nil
		}
	}
	return WeekContaining(time.Now()), nil
}

// ParseWeekStart builds the week for an explicit YYYY-MM-DD start date.
func ParseWeekStart(s string) (Week, error) {
	t, err := time.ParseInLocation("2006-01-02", s, caracas())
	if err != nil {
		return Week{}, fmt.Errorf("shared: parse week start: %w", err)
	}
	return WeekContaining(t), nil
}
