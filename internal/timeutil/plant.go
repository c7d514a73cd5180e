package timeutil

import "time"

// Plant local timezone. All shift boundaries and report dates are
// interpreted in plant time, not server time.
var PlantLocation *time.Location

func init() {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		loc = time.FixedZone("CST", -6*60*60)
	}
	PlantLocation = loc
}

// Now returns the current time in plant local time
func Now() time.Time {
	return time.Now().In(PlantLocation)
}

// ShiftFor maps a timestamp to the plant shift it belongs to:
// shift 1 runs 07:00-15:00, shift 2 runs 15:00-23:00, shift 3 the rest.
func ShiftFor(t time.Time) int {
	hour := t.In(PlantLocation).Hour()
	switch {
	case hour >= 7 && hour < 15:
		return 1
	case hour >= 15 && hour < 23:
		return 2
	default:
		return 3
	}
}

// DayRange expands an inclusive date-only range into start-of-day and
// end-of-day timestamps in plant time.
func DayRange(start, end time.Time) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, PlantLocation)
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, PlantLocation)
	return from, to
}
