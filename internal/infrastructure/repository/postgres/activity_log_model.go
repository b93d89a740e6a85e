package postgres

import "time"

type activityLogTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	UserName  string    `db:"user_name"`
	UserRole  string    `db:"user_role"`
	Action    string    `db:"action"`
	Target    string    `db:"target"`
	TargetID  string    `db:"target_id"`
	Details   string    `db:"details"`
	IPAddress string    `db:"ip_address"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
}

type activityLogInsertModel struct {
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	UserName  string    `db:"user_name"`
	UserRole  string    `db:"user_role"`
	Action    string    `db:"action"`
	Target    string    `db:"target"`
	TargetID  string    `db:"target_id"`
	Details   string    `db:"details"`
	IPAddress string    `db:"ip_address"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
}
