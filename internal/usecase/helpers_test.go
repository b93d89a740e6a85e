package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/match"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

type sequenceIDs struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1)), nil
}

func ctxIs(ctx context.Context) any {
	return mock.MatchedBy(func(v context.Context) bool { return v == ctx })
}


func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func bangkokAt(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02T15:04", value, match.Bangkok)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func basketballMatch(t *testing.T, status match.Status) match.Match {
	t.Helper()
	date, err := match.ParseDate("2025-12-26")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return match.Match{
		ID:        "match-1",
		SportType: "Basketball",
		Team1:     "Engineering",
		Team2:     "Medicine",
		Date:      date,
		TimeStart: "09:00",
		TimeEnd:   "10:00",
		Location:  "KKU Gym 2",
		MapsLink:  "https://maps.app.goo.gl/kku-gym-2",
		Status:    status,
	}
}

var (
	adminPrincipal      = user.Principal{UserID: "u-admin", Username: "admin", Role: user.RoleAdmin}
	basketballManager   = user.Principal{UserID: "u-bb", Username: "bb-manager", Role: user.RoleSportManager, SportType: "Basketball"}
	footballManager     = user.Principal{UserID: "u-fb", Username: "fb-manager", Role: user.RoleSportManager, SportType: "Football"}
	editorPrincipal     = user.Principal{UserID: "u-editor", Username: "editor", Role: user.RoleEditor}
	plainUserPrincipal  = user.Principal{UserID: "u-user", Username: "viewer", Role: user.RoleUser}
)

type stubResultNotifier struct {
	calls []match.Match
	sent  int
	err   error
}

func (s *stubResultNotifier) NotifyResult(_ context.Context, m match.Match) (int, error) {
	s.calls = append(s.calls, m)
	return s.sent, s.err
}
