package banner

import "time"

type Banner struct {
	ID         string
	Filename   string
	URL        string
	PublicID   string
	UploadedBy string
	CreatedAt  time.Time
}
