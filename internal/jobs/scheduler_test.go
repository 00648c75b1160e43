package jobs

import (
	"context"
	"testing"
	"time"

	"serotonyl.ru/sharkspin/internal/features/daily"
)

type fakeWeekly struct{}

func (fakeWeekly) ResetWeekly(context.Context) (int64, error) { return 0, nil }

type fakeReminders struct{}

func (fakeReminders) SendReminders(context.Context, func(context.Context, daily.Reminder) error) (int, error) {
	return 0, nil
}

func TestSchedulerRegistersEnabledJobs(t *testing.T) {
	send := func(context.Context, daily.Reminder) error { return nil }

	tests := []struct {
		name string
		s    *Scheduler
		want int
	}{
		{"none", NewScheduler(nil), 0},
		{"weekly", NewScheduler(time.UTC).WithWeeklyReset(fakeWeekly{}), 1},
		{"both", NewScheduler(time.UTC).WithWeeklyReset(fakeWeekly{}).WithReminders(fakeReminders{}, send), 2},
		{"reminders without sender", NewScheduler(time.UTC).WithReminders(fakeReminders{}, nil), 0},
	}
	for _, tt := range tests {
		if err := tt.s.Start(context.Background()); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		got := len(tt.s.cron.Entries())
		tt.s.Stop()
		if got != tt.want {
			t.Fatalf("%s: unexpected job count: got=%d want=%d", tt.name, got, tt.want)
		}
	}
}

func TestWeeklyResetRunsOnMonday(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	s := NewScheduler(loc).WithWeeklyReset(fakeWeekly{})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	// Среда 2024-05-15
	from := time.Date(2024, 5, 15, 12, 0, 0, 0, loc)
	next := s.cron.Entries()[0].Schedule.Next(from)
	want := time.Date(2024, 5, 20, 0, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("unexpected next run: got=%v want=%v", next, want)
	}
}
