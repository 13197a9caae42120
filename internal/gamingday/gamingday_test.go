package gamingday

import (
	"testing"
	"time"
)

func TestDayRollsOverAtStartHour(t *testing.T) {
	r := NewResolver(Config{StartHour: 6, Location: time.UTC})

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "late evening stays on same day", at: time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC), want: "2024-03-10"},
		{name: "2am belongs to previous day", at: time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC), want: "2024-03-10"},
		{name: "exactly at start hour is the new day", at: time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC), want: "2024-03-11"},
		{name: "just before start hour", at: time.Date(2024, 3, 11, 5, 59, 59, 0, time.UTC), want: "2024-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Day("casino-1", tt.at)
			if got.Format("2006-01-02") != tt.want {
				t.Fatalf("Day = %s, want %s", got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestWindowStart(t *testing.T) {
	r := NewResolver(Config{StartHour: 6, Location: time.UTC})
	at := time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)
	got := r.WindowStart("casino-1", at)
	want := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("WindowStart = %v, want %v", got, want)
	}
	if got.After(at) {
		t.Fatal("window start is after the instant it contains")
	}
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver(Config{StartHour: -3})
	if r.def.StartHour != 6 {
		t.Fatalf("StartHour = %d, want 6", r.def.StartHour)
	}
	if r.def.Location != time.UTC {
		t.Fatal("Location did not default to UTC")
	}
}
