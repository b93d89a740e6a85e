package banner

import (
	"context"
	"io"
)

// Upload is an image file received from an operator.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredImage is the CDN location of an uploaded image.
type StoredImage struct {
	URL      string
	PublicID string
}

type ImageStore interface {
	Upload(ctx context.Context, in Upload) (StoredImage, error)
	Destroy(ctx context.Context, publicID string) error
}
