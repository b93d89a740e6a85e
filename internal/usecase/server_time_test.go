package usecase

import (
	"testing"
	"time"
)

func TestClockService_NowReportsBangkokWallClock(t *testing.T) {
	t.Parallel()

	svc := NewClockService()
	svc.now = func() time.Time { return time.Date(2025, 12, 25, 18, 30, 5, 0, time.UTC) }

	got := svc.Now()
	if got.CurrentDate != "2025-12-26" || got.CurrentTime != "01:30:05" {
		t.Fatalf("unexpected wall clock: date=%s time=%s", got.CurrentDate, got.CurrentTime)
	}
	if got.Timezone != "Asia/Bangkok" || got.UTCOffset != "+07:00" {
		t.Fatalf("unexpected zone: %+v", got)
	}
}
