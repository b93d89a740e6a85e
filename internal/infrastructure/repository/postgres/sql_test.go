package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/sport-alerts/internal/domain/match"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation matches does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if !isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})) {
		t.Fatalf("expected unique violation for 23505")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("expected false for foreign key violation")
	}
}

func TestOptionalString(t *testing.T) {
	t.Parallel()

	if got := optionalString("  "); got != nil {
		t.Fatalf("expected nil for blank, got %q", *got)
	}
	if got := optionalString(" boom "); got == nil || *got != "boom" {
		t.Fatalf("unexpected optional string: %v", got)
	}
}

func TestMatchFromRow_MapsNullableResult(t *testing.T) {
	t.Parallel()

	row := matchTableModel{
		PublicID:  "match-1",
		SportType: "Basketball",
		Team1:     "Engineering",
		Team2:     "Medicine",
		MatchDate: time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC),
		TimeStart: "09:00",
		TimeEnd:   "10:00",
		Status:    "COMPLETED",
		HomeScore: sql.NullInt64{Int64: 85, Valid: true},
		AwayScore: sql.NullInt64{Int64: 78, Valid: true},
		Winner:    sql.NullString{String: "team1", Valid: true},
	}

	got := matchFromRow(row)
	if got.CalendarDate() != "2025-12-26" {
		t.Fatalf("unexpected date: got=%s want=2025-12-26", got.CalendarDate())
	}
	if got.Date.Location() != match.Bangkok {
		t.Fatalf("date must be anchored in Bangkok, got %s", got.Date.Location())
	}
	result, ok := got.Result()
	if !ok || result.HomeScore != 85 || result.Winner != match.WinnerTeam1 {
		t.Fatalf("unexpected result: %+v ok=%v", result, ok)
	}

	row.HomeScore = sql.NullInt64{}
	if _, ok := matchFromRow(row).Result(); ok {
		t.Fatalf("expected no result when home score is null")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
