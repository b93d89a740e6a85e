package postgres

import "time"

type bannerTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	Filename        string    `db:"filename"`
	URL             string    `db:"url"`
	StoragePublicID string    `db:"storage_public_id"`
	UploadedBy      string    `db:"uploaded_by"`
	CreatedAt       time.Time `db:"created_at"`
}

type bannerInsertModel struct {
	PublicID        string    `db:"public_id"`
	Filename        string    `db:"filename"`
	URL             string    `db:"url"`
	StoragePublicID string    `db:"storage_public_id"`
	UploadedBy      string    `db:"uploaded_by"`
	CreatedAt       time.Time `db:"created_at"`
}
