package timezone

import (
	"testing"
	"time"
)

func TestLocation_FallsBackToDefault(t *testing.T) {
	want, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	for _, tz := range []string{"", "Not/AZone"} {
		if got := Location(tz); got.String() != want.String() {
			t.Fatalf("Location(%q) = %s, want %s", tz, got, want)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	want := time.Date(2026, 10, 19, 18, 0, 0, 0, loc)

	tests := []string{
		"2026-10-19T18:00",
		"2026-10-19T18:00:00",
		"2026-10-19 18:00",
		"2026-10-19T11:00:00Z",
		"2026-10-19T18:00:00+07:00",
	}

	for _, in := range tests {
		got, err := ParseDateTime(in, loc)
		if err != nil {
			t.Fatalf("ParseDateTime(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDateTime(%q) = %v, want %v", in, got, want)
		}
		if got.Location() != loc {
			t.Fatalf("ParseDateTime(%q) location = %v", in, got.Location())
		}
	}

	if _, err := ParseDateTime("tomorrow", loc); err == nil {
		t.Fatal("expected error for free text")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-10-19 ", time.UTC)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Weekday() != time.Monday {
		t.Fatalf("weekday = %v, want Monday", d.Weekday())
	}
}
