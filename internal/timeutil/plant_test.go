package timeutil

import (
	"testing"
	"time"
)

func TestShiftFor(t *testing.T) {
	cases := []struct {
		hour int
		want int
	}{
		{7, 1},
		{10, 1},
		{14, 1},
		{15, 2},
		{19, 2},
		{22, 2},
		{23, 3},
		{0, 3},
		{3, 3},
		{6, 3},
	}

	for _, c := range cases {
		ts := time.Date(2026, 3, 10, c.hour, 30, 0, 0, PlantLocation)
		if got := ShiftFor(ts); got != c.want {
			t.Errorf("ShiftFor(hour=%d) = %d, want %d", c.hour, got, c.want)
		}
	}
}

func TestDayRange(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 22, 5, 0, PlantLocation)
	end := time.Date(2026, 3, 12, 9, 0, 0, 0, PlantLocation)

	from, to := DayRange(start, end)

	if from.Hour() != 0 || from.Minute() != 0 || from.Second() != 0 {
		t.Errorf("from = %v, want start of day", from)
	}
	if from.Day() != 10 {
		t.Errorf("from day = %d, want 10", from.Day())
	}
	if to.Hour() != 23 || to.Minute() != 59 || to.Second() != 59 {
		t.Errorf("to = %v, want end of day", to)
	}
	if to.Day() != 12 {
		t.Errorf("to day = %d, want 12", to.Day())
	}
}

func TestDayRangeSingleDayContainsWholeDay(t *testing.T) {
	day := time.Date(2026, 5, 1, 12, 0, 0, 0, PlantLocation)
	from, to := DayRange(day, day)

	early := time.Date(2026, 5, 1, 0, 0, 1, 0, PlantLocation)
	late := time.Date(2026, 5, 1, 23, 59, 58, 0, PlantLocation)

	if early.Before(from) || late.After(to) {
		t.Errorf("range [%v, %v] does not cover the whole day", from, to)
	}
}
