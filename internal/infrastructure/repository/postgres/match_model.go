package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	SportType      string         `db:"sport_type"`
	Team1          string         `db:"team1"`
	Team2          string         `db:"team2"`
	MatchDate      time.Time      `db:"match_date"`
	TimeStart      string         `db:"time_start"`
	TimeEnd        string         `db:"time_end"`
	Location       string         `db:"location"`
	MapsLink       string         `db:"maps_link"`
	Status         string         `db:"status"`
	HomeScore      sql.NullInt64  `db:"home_score"`
	AwayScore      sql.NullInt64  `db:"away_score"`
	Winner         sql.NullString `db:"winner"`
	ReminderSentAt *time.Time     `db:"reminder_sent_at"`
	CreatedBy      string         `db:"created_by"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID  string    `db:"public_id"`
	SportType string    `db:"sport_type"`
	Team1     string    `db:"team1"`
	Team2     string    `db:"team2"`
	MatchDate string    `db:"match_date"`
	TimeStart string    `db:"time_start"`
	TimeEnd   string    `db:"time_end"`
	Location  string    `db:"location"`
	MapsLink  string    `db:"maps_link"`
	Status    string    `db:"status"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
