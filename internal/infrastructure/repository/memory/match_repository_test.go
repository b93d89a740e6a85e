package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/match"
)

func seedMatch(t *testing.T, repo *MatchRepository, id, sportType, date, start string, status match.Status) {
	t.Helper()
	d, err := match.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	err = repo.Create(context.Background(), match.Match{
		ID: id, SportType: sportType, Team1: "Engineering", Team2: "Science",
		Date: d, TimeStart: start, TimeEnd: "23:00", Location: "Gym", Status: status,
	})
	if err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
}

func TestMatchRepository_ListOrdersAndFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository()
	seedMatch(t, repo, "m-3", "Football", "2025-12-27", "08:00", match.StatusScheduled)
	seedMatch(t, repo, "m-2", "Basketball", "2025-12-26", "13:00", match.StatusScheduled)
	seedMatch(t, repo, "m-1", "basketball", "2025-12-26", "09:00", match.StatusCompleted)

	all, err := repo.List(ctx, match.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "m-1" || all[1].ID != "m-2" || all[2].ID != "m-3" {
		t.Fatalf("unexpected order: %+v", all)
	}

	open, _ := repo.List(ctx, match.ListFilter{SportType: "BASKETBALL", ExcludeCompleted: true})
	if len(open) != 1 || open[0].ID != "m-2" {
		t.Fatalf("unexpected filtered list: %+v", open)
	}

	searched, _ := repo.List(ctx, match.ListFilter{Search: "foot"})
	if len(searched) != 1 || searched[0].ID != "m-3" {
		t.Fatalf("unexpected search result: %+v", searched)
	}
}

func TestMatchRepository_TransitionStatusIsConditional(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository()
	seedMatch(t, repo, "m-1", "Chess", "2025-12-26", "09:00", match.StatusOngoing)
	at := time.Date(2025, 12, 26, 5, 0, 0, 0, time.UTC)

	ok, err := repo.TransitionStatus(ctx, "m-1", match.StatusScheduled, match.StatusOngoing, at)
	if err != nil || ok {
		t.Fatalf("stale transition should not apply: ok=%v err=%v", ok, err)
	}
	ok, _ = repo.TransitionStatus(ctx, "m-1", match.StatusOngoing, match.StatusPendingResult, at)
	if !ok {
		t.Fatalf("expected transition to apply")
	}
	got, _, _ := repo.GetByID(ctx, "m-1")
	if got.Status != match.StatusPendingResult {
		t.Fatalf("unexpected status: got=%s want=%s", got.Status, match.StatusPendingResult)
	}
}

func TestMatchRepository_ClaimReminderOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository()
	seedMatch(t, repo, "m-1", "Chess", "2025-12-26", "09:00", match.StatusScheduled)
	at := time.Date(2025, 12, 25, 2, 0, 0, 0, time.UTC)

	first, _ := repo.ClaimReminder(ctx, "m-1", at)
	second, _ := repo.ClaimReminder(ctx, "m-1", at)
	if !first || second {
		t.Fatalf("unexpected claims: first=%v second=%v", first, second)
	}

	if err := repo.ReleaseReminder(ctx, "m-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if again, _ := repo.ClaimReminder(ctx, "m-1", at); !again {
		t.Fatalf("released reminder should be claimable")
	}
}

func TestMatchRepository_SaveResultTwiceKeepsLatest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository()
	seedMatch(t, repo, "m-1", "Basketball", "2025-12-26", "09:00", match.StatusPendingResult)
	at := time.Date(2025, 12, 26, 4, 0, 0, 0, time.UTC)

	_ = repo.SaveResult(ctx, "m-1", match.Result{HomeScore: 80, AwayScore: 78, Winner: match.WinnerTeam1}, at)
	_ = repo.SaveResult(ctx, "m-1", match.Result{HomeScore: 85, AwayScore: 78, Winner: match.WinnerTeam1}, at)

	got, _, _ := repo.GetByID(ctx, "m-1")
	result, ok := got.Result()
	if !ok || result.HomeScore != 85 || got.Status != match.StatusCompleted {
		t.Fatalf("unexpected match after edits: %+v", got)
	}

	*got.HomeScore = 0
	again, _, _ := repo.GetByID(ctx, "m-1")
	if *again.HomeScore != 85 {
		t.Fatalf("repository must not share score pointers with callers")
	}
}
