package orgf

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()
	ts, err := ParseTimestamp("<2024-01-15 Mon>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !ts.Active || ts.Start != (Date{Year: 2024, Month: 1, Day: 15, Weekday: "Mon"}) || ts.IsRange() {
		t.Fatalf("unexpected timestamp %+v", ts)
	}

	ts, err = ParseTimestamp("[2024-01-15 Mon 10:00-11:30]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.Active || !ts.Start.HasTime || ts.Start.Hour != 10 || ts.End == nil || ts.End.Hour != 11 || ts.End.Minute != 30 {
		t.Fatalf("unexpected time range %+v %+v", ts, ts.End)
	}

	ts, err = ParseTimestamp("<2024-01-15 Mon 9:05 +1w -2d>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.Repeater == nil || ts.Repeater.String() != "+1w" || ts.Warning == nil || ts.Warning.String() != "-2d" {
		t.Fatalf("unexpected cookies %+v %+v", ts.Repeater, ts.Warning)
	}
	if ts.Start.String() != "2024-01-15 Mon 09:05" {
		t.Fatalf("unexpected date string %q", ts.Start.String())
	}
}

func TestParseTimestampCookies(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		repeater string
		warning  string
	}{
		{"<2024-01-15 .+1m>", ".+1m", ""},
		{"<2024-01-15 ++2d>", "++2d", ""},
		{"<2024-01-15 --3d>", "", "--3d"},
		{"<2024-01-15 Mon 08:00 +1y --1w>", "+1y", "--1w"},
	}
	for _, tt := range tests {
		ts, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		var rep, warn string
		if ts.Repeater != nil {
			rep = ts.Repeater.String()
		}
		if ts.Warning != nil {
			warn = ts.Warning.String()
		}
		if rep != tt.repeater || warn != tt.warning {
			t.Fatalf("%q: got %q/%q, want %q/%q", tt.in, rep, warn, tt.repeater, tt.warning)
		}
	}
}

func TestParseTimestampDateRange(t *testing.T) {
	t.Parallel()
	ts, err := ParseTimestamp("<2024-01-15>--<2024-01-17>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.End == nil || ts.End.Day != 17 || ts.Raw != "<2024-01-15>--<2024-01-17>" {
		t.Fatalf("unexpected range %+v", ts)
	}
	if _, err := ParseTimestamp("<2024-01-15>--[2024-01-17]"); err == nil {
		t.Fatalf("expected mixed active/inactive range to be rejected")
	}
}

func TestParseTimestampDiary(t *testing.T) {
	t.Parallel()
	ts, err := ParseTimestamp("<%%(diary-float t 4 2)>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.Diary != "(diary-float t 4 2)" || !ts.Active {
		t.Fatalf("unexpected diary timestamp %+v", ts)
	}
}

func TestParseTimestampRejects(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"",
		"<2024-13-01>",
		"<2024-01-32>",
		"<2024-01-15",
		"[2024-1-5]",
		"<2024-01-15 Mon>x",
		"<2024-01-15 25:00>",
		"<2024-01-15 +1x>",
		"<2024-01-15\nMon>",
	} {
		if ts, err := ParseTimestamp(in); err == nil {
			t.Fatalf("expected %q to be rejected, got %+v", in, ts)
		}
	}
}

func TestDateTime(t *testing.T) {
	t.Parallel()
	d := Date{Year: 2024, Month: 2, Day: 29, HasTime: true, Hour: 13, Minute: 45}
	want := time.Date(2024, time.February, 29, 13, 45, 0, 0, time.UTC)
	if got := d.Time(nil); !got.Equal(want) {
		t.Fatalf("Time() = %v, want %v", got, want)
	}
}
