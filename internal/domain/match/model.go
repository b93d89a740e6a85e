package match

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a match. Values only move forward.
type Status string

const (
	StatusScheduled     Status = "SCHEDULED"
	StatusOngoing       Status = "ONGOING"
	StatusPendingResult Status = "PENDING_RESULT"
	StatusCompleted     Status = "COMPLETED"
)

func (s Status) rank() int {
	switch s {
	case StatusScheduled:
		return 0
	case StatusOngoing:
		return 1
	case StatusPendingResult:
		return 2
	case StatusCompleted:
		return 3
	default:
		return -1
	}
}

func (s Status) Valid() bool {
	return s.rank() >= 0
}

// Before reports whether s comes earlier in the lifecycle than other.
func (s Status) Before(other Status) bool {
	return s.rank() < other.rank()
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown match status %q", value)
	}
	return status, nil
}

// Winner identifies the side that won a completed match.
type Winner string

const (
	WinnerTeam1 Winner = "team1"
	WinnerTeam2 Winner = "team2"
	WinnerDraw  Winner = "draw"
)

func (w Winner) Valid() bool {
	switch w {
	case WinnerTeam1, WinnerTeam2, WinnerDraw:
		return true
	default:
		return false
	}
}

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Bangkok is the fixed UTC+7 offset every schedule is interpreted in. Thailand has no DST.
var Bangkok = time.FixedZone("Asia/Bangkok", 7*60*60)

// Match is a single game between two free-text teams.
type Match struct {
	ID             string
	SportType      string
	Team1          string
	Team2          string
	Date           time.Time
	TimeStart      string
	TimeEnd        string
	Location       string
	MapsLink       string
	Status         Status
	HomeScore      *int
	AwayScore      *int
	Winner         Winner
	ReminderSentAt *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Result is the final score of a match.
type Result struct {
	HomeScore int
	AwayScore int
	Winner    Winner
}

func (r Result) Validate() error {
	if r.HomeScore < 0 || r.AwayScore < 0 {
		return fmt.Errorf("scores must be non-negative")
	}
	if !r.Winner.Valid() {
		return fmt.Errorf("winner must be one of team1, team2, draw")
	}
	return nil
}

// Result returns the recorded result, if any.
func (m Match) Result() (Result, bool) {
	if m.HomeScore == nil || m.AwayScore == nil || m.Winner == "" {
		return Result{}, false
	}
	return Result{HomeScore: *m.HomeScore, AwayScore: *m.AwayScore, Winner: m.Winner}, true
}

// ApplyResult sets the score and winner and forces the match to COMPLETED.
func (m *Match) ApplyResult(r Result, at time.Time) {
	home, away := r.HomeScore, r.AwayScore
	m.HomeScore = &home
	m.AwayScore = &away
	m.Winner = r.Winner
	m.Status = StatusCompleted
	m.UpdatedAt = at
}

// Teams renders "Team1 vs Team2".
func (m Match) Teams() string {
	return m.Team1 + " vs " + m.Team2
}

// ParseDate parses a YYYY-MM-DD calendar date as Bangkok midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), Bangkok)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// ParseClock validates an HH:MM 24-hour clock string and returns minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("time must be HH:MM: %w", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateSchedule checks the fields an operator supplies when creating or editing a match.
func (m Match) ValidateSchedule() error {
	switch {
	case strings.TrimSpace(m.SportType) == "":
		return fmt.Errorf("sportType is required")
	case strings.TrimSpace(m.Team1) == "" || strings.TrimSpace(m.Team2) == "":
		return fmt.Errorf("team1 and team2 are required")
	case m.Date.IsZero():
		return fmt.Errorf("date is required")
	case strings.TrimSpace(m.Location) == "":
		return fmt.Errorf("location is required")
	case strings.TrimSpace(m.MapsLink) == "":
		return fmt.Errorf("mapsLink is required")
	}

	start, err := ParseClock(m.TimeStart)
	if err != nil {
		return fmt.Errorf("timeStart: %w", err)
	}
	end, err := ParseClock(m.TimeEnd)
	if err != nil {
		return fmt.Errorf("timeEnd: %w", err)
	}
	if end < start {
		return fmt.Errorf("timeEnd must not be earlier than timeStart")
	}
	return nil
}

// CalendarDate returns the match date formatted as YYYY-MM-DD.
func (m Match) CalendarDate() string {
	y, mo, d := m.Date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, Bangkok).Format(DateLayout)
}
