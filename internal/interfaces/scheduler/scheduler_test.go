package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ScheduleTime
		wantErr bool
	}{
		{
			name:  "Early Morning",
			input: "00:05",
			want:  ScheduleTime{Hour: 0, Minute: 5},
		},
		{
			name:  "End Of Day",
			input: "23:59",
			want:  ScheduleTime{Hour: 23, Minute: 59},
		},
		{
			name:  "Single Digit Hour",
			input: "9:30",
			want:  ScheduleTime{Hour: 9, Minute: 30},
		},
		{
			name:    "Hour Out Of Range",
			input:   "24:00",
			wantErr: true,
		},
		{
			name:    "Minute Out Of Range",
			input:   "12:60",
			wantErr: true,
		},
		{
			name:    "Not A Time",
			input:   "later",
			wantErr: true,
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScheduleTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScheduleTimeString(t *testing.T) {
	st := ScheduleTime{Hour: 9, Minute: 5}
	if st.String() != "09:05" {
		t.Errorf("expected 09:05, got %s", st.String())
	}
}

func TestNewRequiresScheduleTime(t *testing.T) {
	_, err := New(Config{ScheduleTimes: nil, WorkerCount: 1, QueueSize: 1})
	if err == nil {
		t.Fatal("expected error for empty schedule times, got none")
	}
}

func TestNewRejectsInvalidScheduleTime(t *testing.T) {
	_, err := New(Config{ScheduleTimes: []string{"25:00"}, WorkerCount: 1, QueueSize: 1})
	if err == nil {
		t.Fatal("expected error for invalid schedule time, got none")
	}
}

func TestShouldRun(t *testing.T) {
	s, err := New(Config{ScheduleTimes: []string{"03:15"}, WorkerCount: 1, QueueSize: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	match := time.Date(2024, 3, 20, 3, 15, 30, 0, time.UTC)
	if !s.shouldRun(match) {
		t.Error("expected matching time to trigger a run")
	}
	if s.shouldRun(match) {
		t.Error("expected same minute not to trigger twice")
	}

	nextDay := match.AddDate(0, 0, 1)
	if !s.shouldRun(nextDay) {
		t.Error("expected same time on the next day to trigger again")
	}

	if s.shouldRun(time.Date(2024, 3, 20, 3, 16, 0, 0, time.UTC)) {
		t.Error("expected non-matching minute not to trigger")
	}
}

func TestSchedulerRunsJobsOnStartup(t *testing.T) {
	executed := make(chan string, 1)
	job := &recordingJob{id: "42", done: executed}

	s, err := New(Config{
		ScheduleTimes: []string{"00:05"},
		WorkerCount:   1,
		QueueSize:     1,
		RunOnStartup:  true,
		JobProvider: func(ctx context.Context) ([]Job, error) {
			return []Job{job}, nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Start()
	defer s.Shutdown(time.Second)

	select {
	case id := <-executed:
		if id != "42" {
			t.Errorf("expected job for user 42, got %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed on startup")
	}
}

type recordingJob struct {
	id   string
	done chan string
}

func (j *recordingJob) Execute(ctx context.Context) error {
	j.done <- j.id
	return nil
}

func (j *recordingJob) UserID() string      { return j.id }
func (j *recordingJob) Description() string { return "recording job for user " + j.id }
