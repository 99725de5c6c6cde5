package period

import (
	"testing"
	"time"
)

var fakeNow = time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDerive_Quarter(t *testing.T) {
	r, ok := Derive("revenue for Q1 2023", fakeNow)
	if !ok {
		t.Fatal("expected a period")
	}
	if !r.Start.Equal(date(2023, time.January, 1)) || !r.End.Equal(date(2023, time.March, 31)) {
		t.Errorf("Q1 2023 = %v", r)
	}
}

func TestDerive_AllQuarters(t *testing.T) {
	cases := []struct {
		query      string
		start, end time.Time
	}{
		{"Q2 2023", date(2023, time.April, 1), date(2023, time.June, 30)},
		{"Q3 2023", date(2023, time.July, 1), date(2023, time.September, 30)},
		{"Q4 2023", date(2023, time.October, 1), date(2023, time.December, 31)},
	}
	for _, c := range cases {
		r, ok := Derive(c.query, fakeNow)
		if !ok {
			t.Fatalf("%s: expected a period", c.query)
		}
		if !r.Start.Equal(c.start) || !r.End.Equal(c.end) {
			t.Errorf("%s = %v", c.query, r)
		}
	}
}

func TestDerive_BareYear(t *testing.T) {
	r, ok := Derive("how did the stock do in 2022", fakeNow)
	if !ok {
		t.Fatal("expected a period")
	}
	if !r.Start.Equal(date(2022, time.January, 1)) || !r.End.Equal(date(2022, time.December, 31)) {
		t.Errorf("2022 = %v", r)
	}
}

func TestDerive_RelativePhrase(t *testing.T) {
	r, ok := Derive("price one year ago", fakeNow)
	if !ok {
		t.Fatal("expected a period")
	}
	if !r.IsPoint() {
		t.Fatalf("relative phrase should yield a single day, got %v", r)
	}
	// 365-day subtraction crosses 2024-02-29, so the day lands within one
	// day of the same calendar date a year earlier.
	want := date(2023, time.June, 1)
	diff := r.Start.Sub(want)
	if diff < -24*time.Hour || diff > 24*time.Hour {
		t.Errorf("one year ago = %v, want %v +/- 1 day", r.Start, want)
	}
}

func TestDerive_RelativeOffsets(t *testing.T) {
	cases := []struct {
		phrase string
		days   int
	}{
		{"six months ago", 180},
		{"three months ago", 90},
		{"last month", 30},
	}
	for _, c := range cases {
		r, ok := Derive("the price "+c.phrase, fakeNow)
		if !ok {
			t.Fatalf("%s: expected a period", c.phrase)
		}
		want := date(2024, time.June, 1).AddDate(0, 0, -c.days)
		if !r.Start.Equal(want) {
			t.Errorf("%s = %v, want %v", c.phrase, r.Start, want)
		}
	}
}

func TestDerive_RelativeWinsOverYear(t *testing.T) {
	r, ok := Derive("compared to one year ago, is 2022 revenue higher", fakeNow)
	if !ok {
		t.Fatal("expected a period")
	}
	if !r.IsPoint() {
		t.Errorf("relative phrase should take precedence, got %v", r)
	}
}

func TestDerive_NoPeriod(t *testing.T) {
	if _, ok := Derive("is this a good buy", fakeNow); ok {
		t.Error("expected no period")
	}
}

func TestDerive_ImplausibleYearIgnored(t *testing.T) {
	if _, ok := Derive("order number 8899", fakeNow); ok {
		t.Error("8899 should not parse as a year")
	}
}
