package schedule

import (
	"testing"
	"time"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "00:00", want: "0 0 0 * * *"},
		{in: "09:30", want: "0 30 9 * * *"},
		{in: "23:59", want: "0 59 23 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12", wantErr: true},
	}

	for _, tt := range tests {
		got, err := buildDailySpec(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("buildDailySpec(%q) accepted", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("buildDailySpec(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("buildDailySpec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScheduleIntervalRejectsNonPositive(t *testing.T) {
	s := New(time.UTC)
	if _, err := s.ScheduleInterval(0, func() {}); err == nil {
		t.Fatal("zero interval accepted")
	}
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(time.UTC)
	ran := make(chan struct{}, 1)

	if _, err := s.ScheduleInterval(time.Second, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
