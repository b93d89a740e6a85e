package postgres

import "time"

type subscriberTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Email     string    `db:"email"`
	IsActive  bool      `db:"is_active"`
	Sports    string    `db:"sports"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type subscriberInsertModel struct {
	PublicID  string    `db:"public_id"`
	Email     string    `db:"email"`
	IsActive  bool      `db:"is_active"`
	Sports    string    `db:"sports"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
