package usecase

import (
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/match"
)

type ServerTime struct {
	CurrentDate string `json:"currentDate"`
	CurrentTime string `json:"currentTime"`
	Timestamp   int64  `json:"timestamp"`
	Timezone    string `json:"timezone"`
	UTCOffset   string `json:"utcOffset"`
}

// ClockService exposes the Bangkok wall clock that match statuses are evaluated against.
type ClockService struct {
	now func() time.Time
}

func NewClockService() *ClockService {
	return &ClockService{now: time.Now}
}

func (s *ClockService) Now() ServerTime {
	current := bangkokNow(s.now)
	return ServerTime{
		CurrentDate: current.Format(match.DateLayout),
		CurrentTime: current.Format("15:04:05"),
		Timestamp:   current.UnixMilli(),
		Timezone:    "Asia/Bangkok",
		UTCOffset:   "+07:00",
	}
}
