package postgres

import "time"

type jobDispatchInsertModel struct {
	DispatchID    string     `db:"dispatch_id"`
	JobName       string     `db:"job_name"`
	Status        string     `db:"status"`
	QueuedAt      *time.Time `db:"queued_at"`
	RunAfter      *time.Time `db:"run_after"`
	FinishedAt    *time.Time `db:"finished_at"`
	Checked       int        `db:"checked"`
	Transitions   int        `db:"transitions"`
	RemindersSent int        `db:"reminders_sent"`
	Recipients    int        `db:"recipients"`
	LastError     *string    `db:"last_error"`
	TraceID       *string    `db:"trace_id"`
}
