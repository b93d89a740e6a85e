package match

import (
	"testing"
	"time"
)

func bkk(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02T15:04", value, Bangkok)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func newMatch(t *testing.T, status Status) Match {
	t.Helper()
	date, err := ParseDate("2025-12-26")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return Match{
		ID:        "m-1",
		SportType: "Basketball",
		Team1:     "Engineering",
		Team2:     "Medicine",
		Date:      date,
		TimeStart: "09:00",
		TimeEnd:   "10:00",
		Location:  "Gym 2",
		MapsLink:  "https://maps.app.goo.gl/kku-gym-2",
		Status:    status,
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status Status
		now    string
		want   Status
	}{
		{name: "before start", status: StatusScheduled, now: "2025-12-25T23:59", want: StatusScheduled},
		{name: "at start", status: StatusScheduled, now: "2025-12-26T09:00", want: StatusOngoing},
		{name: "inside window", status: StatusScheduled, now: "2025-12-26T09:30", want: StatusOngoing},
		{name: "at end", status: StatusOngoing, now: "2025-12-26T10:00", want: StatusOngoing},
		{name: "after end", status: StatusScheduled, now: "2025-12-26T10:01", want: StatusPendingResult},
		{name: "after end from ongoing", status: StatusOngoing, now: "2025-12-26T10:01", want: StatusPendingResult},
		{name: "date elapsed skips ongoing", status: StatusScheduled, now: "2025-12-27T08:00", want: StatusPendingResult},
		{name: "completed is terminal", status: StatusCompleted, now: "2025-12-25T08:00", want: StatusCompleted},
		{name: "never regresses pending", status: StatusPendingResult, now: "2025-12-26T09:30", want: StatusPendingResult},
		{name: "never regresses ongoing", status: StatusOngoing, now: "2025-12-25T08:00", want: StatusOngoing},
		{name: "empty stored status treated as scheduled", status: "", now: "2025-12-26T09:30", want: StatusOngoing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := newMatch(t, tc.status)
			if got := Evaluate(m, bkk(t, tc.now)); got != tc.want {
				t.Fatalf("unexpected status: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestEvaluateUsesBangkokOffsetForForeignClocks(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StatusScheduled)
	// 02:30 UTC is 09:30 in Bangkok.
	now := time.Date(2025, 12, 26, 2, 30, 0, 0, time.UTC)
	if got := Evaluate(m, now); got != StatusOngoing {
		t.Fatalf("unexpected status: got=%s want=%s", got, StatusOngoing)
	}
}

func TestEvaluateZeroDurationWindow(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StatusScheduled)
	m.TimeEnd = m.TimeStart

	if got := Evaluate(m, bkk(t, "2025-12-26T08:59")); got != StatusScheduled {
		t.Fatalf("before instant: got=%s want=%s", got, StatusScheduled)
	}
	if got := Evaluate(m, bkk(t, "2025-12-26T09:00")); got != StatusPendingResult {
		t.Fatalf("at instant: got=%s want=%s", got, StatusPendingResult)
	}
}

func TestEvaluateWithoutUsableWindowKeepsStoredStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Match){
		"missing start":    func(m *Match) { m.TimeStart = "" },
		"missing end":      func(m *Match) { m.TimeEnd = "" },
		"malformed clock":  func(m *Match) { m.TimeEnd = "25:99" },
		"end before start": func(m *Match) { m.TimeStart, m.TimeEnd = "22:00", "01:00" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m := newMatch(t, StatusOngoing)
			mutate(&m)
			if got := Evaluate(m, bkk(t, "2025-12-30T12:00")); got != StatusOngoing {
				t.Fatalf("unexpected status: got=%s want=%s", got, StatusOngoing)
			}
		})
	}
}

func TestEvaluateIsPureAndMonotonic(t *testing.T) {
	t.Parallel()

	statuses := []Status{StatusScheduled, StatusOngoing, StatusPendingResult, StatusCompleted}
	start := bkk(t, "2025-12-25T20:00")
	for _, stored := range statuses {
		m := newMatch(t, stored)
		snapshot := m
		for step := 0; step < 40; step++ {
			now := start.Add(time.Duration(step) * 30 * time.Minute)
			first := Evaluate(m, now)
			second := Evaluate(m, now)
			if first != second {
				t.Fatalf("evaluate not deterministic at %s: %s vs %s", now, first, second)
			}
			if first.Before(stored) {
				t.Fatalf("evaluate regressed at %s: stored=%s got=%s", now, stored, first)
			}
		}
		if m.Status != snapshot.Status || m.HomeScore != snapshot.HomeScore {
			t.Fatalf("evaluate mutated its input")
		}
	}
}

func TestReminderDue(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StatusScheduled)

	if !ReminderDue(m, bkk(t, "2025-12-25T09:02")) {
		t.Fatalf("23h58m before start should be inside the reminder window")
	}
	if ReminderDue(m, bkk(t, "2025-12-25T09:20")) {
		t.Fatalf("23h40m before start should be outside the reminder window")
	}
	if !ReminderDue(m, bkk(t, "2025-12-25T08:55")) {
		t.Fatalf("24h05m before start is the inclusive upper bound")
	}
	if ReminderDue(m, bkk(t, "2025-12-25T08:54")) {
		t.Fatalf("24h06m before start should be outside the reminder window")
	}

	sent := bkk(t, "2025-12-25T09:00")
	reminded := m
	reminded.ReminderSentAt = &sent
	if ReminderDue(reminded, bkk(t, "2025-12-25T09:02")) {
		t.Fatalf("already-reminded match must not be due again")
	}

	ongoing := newMatch(t, StatusOngoing)
	if ReminderDue(ongoing, bkk(t, "2025-12-25T09:02")) {
		t.Fatalf("only scheduled matches are due")
	}
}

func TestApplyResult(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StatusPendingResult)
	at := bkk(t, "2025-12-26T10:30")
	m.ApplyResult(Result{HomeScore: 85, AwayScore: 78, Winner: WinnerTeam1}, at)

	result, ok := m.Result()
	if !ok {
		t.Fatalf("expected result to be recorded")
	}
	if m.Status != StatusCompleted || result.HomeScore != 85 || result.AwayScore != 78 || result.Winner != WinnerTeam1 {
		t.Fatalf("unexpected match after result: %+v", m)
	}
	if !m.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected updatedAt: got=%s want=%s", m.UpdatedAt, at)
	}
}

func TestResultValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		result  Result
		wantErr bool
	}{
		{name: "valid", result: Result{HomeScore: 0, AwayScore: 0, Winner: WinnerDraw}},
		{name: "negative home", result: Result{HomeScore: -1, AwayScore: 2, Winner: WinnerTeam2}, wantErr: true},
		{name: "negative away", result: Result{HomeScore: 1, AwayScore: -2, Winner: WinnerTeam1}, wantErr: true},
		{name: "unknown winner", result: Result{HomeScore: 1, AwayScore: 0, Winner: "home"}, wantErr: true},
	}
	for _, tc := range cases {
		err := tc.result.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: unexpected error state: err=%v wantErr=%v", tc.name, err, tc.wantErr)
		}
	}
}

func TestValidateSchedule(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StatusScheduled)
	if err := m.ValidateSchedule(); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}

	bad := m
	bad.TimeStart = "9am"
	if err := bad.ValidateSchedule(); err == nil {
		t.Fatalf("expected malformed clock to be rejected")
	}

	bad = m
	bad.TimeStart, bad.TimeEnd = "18:00", "17:00"
	if err := bad.ValidateSchedule(); err == nil {
		t.Fatalf("expected inverted window to be rejected")
	}

	bad = m
	bad.Team2 = " "
	if err := bad.ValidateSchedule(); err == nil {
		t.Fatalf("expected missing team to be rejected")
	}

	bad = m
	bad.MapsLink = "  "
	if err := bad.ValidateSchedule(); err == nil {
		t.Fatalf("expected missing mapsLink to be rejected")
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	got, err := ParseStatus(" pending_result ")
	if err != nil || got != StatusPendingResult {
		t.Fatalf("unexpected parse: got=%s err=%v", got, err)
	}
	if _, err := ParseStatus("LIVE"); err == nil {
		t.Fatalf("expected unknown status error")
	}
}

func TestCalendarDate(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StatusScheduled)
	m.Date = time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC)
	if got := m.CalendarDate(); got != "2025-12-26" {
		t.Fatalf("unexpected calendar date: %s", got)
	}
}
