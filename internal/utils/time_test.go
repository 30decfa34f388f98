package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone America/New_York",
			timezone: "America/New_York",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("", time.UTC)
	if err != nil || got != nil {
		t.Fatalf("ParseOptionalDate(\"\") = %v, %v; want nil, nil", got, err)
	}

	got, err = ParseOptionalDate("2024-02-29", time.UTC)
	if err != nil {
		t.Fatalf("ParseOptionalDate() error = %v", err)
	}
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseOptionalDate() = %v, want %v", got, want)
	}
	if FormatOptionalDate(got) != "2024-02-29" {
		t.Errorf("FormatOptionalDate() = %q", FormatOptionalDate(got))
	}

	if _, err := ParseOptionalDate("02/29/2024", time.UTC); err == nil {
		t.Error("expected error for wrong date format")
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	ts := time.Date(2024, 1, 15, 13, 45, 12, 500, time.UTC)
	if got := StartOfDay(ts); !got.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay() = %v", got)
	}
	end := EndOfDay(ts)
	if end.Day() != 15 || end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("EndOfDay() = %v", end)
	}
	if !end.Add(time.Nanosecond).Equal(time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EndOfDay() should be one nanosecond before next midnight, got %v", end)
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same instant", base, base, 0},
		{"same day later", base, base.Add(23 * time.Hour), 0},
		{"fourteen days", base, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 14},
		{"end of day window", base, EndOfDay(time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)), 29},
		{"partial day does not count", time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), 0},
		{"negative", base, time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC), -7},
		{"negative partial", base, time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC), 0},
		{"leap year", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// DST starts 2024-03-10; the day is only 23 hours long
	from := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	to := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
	if got := DaysBetween(from, to); got != 2 {
		t.Errorf("DaysBetween() across DST = %d, want 2", got)
	}
}

func TestIsWeekendAndSameDay(t *testing.T) {
	sat := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)
	mon := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	if !IsWeekend(sat) || IsWeekend(mon) {
		t.Error("IsWeekend mismatch")
	}
	if !SameDay(sat, time.Date(2024, 1, 6, 23, 0, 0, 0, time.UTC)) {
		t.Error("SameDay should match same calendar date")
	}
	if SameDay(sat, mon) {
		t.Error("SameDay should not match different dates")
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"~", "/home/tester"},
		{"~/.config/taskline", "/home/tester/.config/taskline"},
		{"/var/lib/taskline.db", "/var/lib/taskline.db"},
		{"relative/~/path", "relative/~/path"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2024, 5, 15, 22, 30, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    string
		wantNil bool
		wantErr bool
	}{
		{in: "", wantNil: true},
		{in: "today", want: "2024-05-15"},
		{in: "Tomorrow", want: "2024-05-16"},
		{in: "yesterday", want: "2024-05-14"},
		{in: "+3d", want: "2024-05-18"},
		{in: "-20d", want: "2024-04-25"},
		{in: "2024-12-31", want: "2024-12-31"},
		{in: "+xd", wantErr: true},
		{in: "31/12/2024", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.in, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseRelativeDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
			if got.Hour() != 0 || got.Location() != time.UTC {
				t.Errorf("expected midnight UTC, got %v", got)
			}
		})
	}
}
