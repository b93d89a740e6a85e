package notification

import (
	"context"
	"strings"

	"github.com/riskibarqy/sport-alerts/internal/domain/match"
)

// Template selects the email layout a message is rendered with.
type Template string

const (
	TemplateMatchReminder Template = "match_reminder"
	TemplateMatchResult   Template = "match_result"
	TemplateWelcome       Template = "welcome"
)

// MatchFields are the structured values match templates render.
type MatchFields struct {
	MatchID   string
	SportType string
	Team1     string
	Team2     string
	Date      string
	TimeStart string
	TimeEnd   string
	Location  string
	MapsLink  string
	HomeScore *int
	AwayScore *int
	Winner    string
}

// WinnerName resolves the winner token to a team name, or "" for a draw.
func (f MatchFields) WinnerName() string {
	switch match.Winner(f.Winner) {
	case match.WinnerTeam1:
		return f.Team1
	case match.WinnerTeam2:
		return f.Team2
	default:
		return ""
	}
}

func FieldsFromMatch(m match.Match) MatchFields {
	fields := MatchFields{
		MatchID:   m.ID,
		SportType: m.SportType,
		Team1:     m.Team1,
		Team2:     m.Team2,
		Date:      m.CalendarDate(),
		TimeStart: m.TimeStart,
		TimeEnd:   m.TimeEnd,
		Location:  m.Location,
		MapsLink:  strings.TrimSpace(m.MapsLink),
		Winner:    string(m.Winner),
	}
	if m.HomeScore != nil {
		home := *m.HomeScore
		fields.HomeScore = &home
	}
	if m.AwayScore != nil {
		away := *m.AwayScore
		fields.AwayScore = &away
	}
	return fields
}

// Message is one outbound email to a batch of recipients.
type Message struct {
	Template   Template
	Recipients []string
	Match      *MatchFields
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}
