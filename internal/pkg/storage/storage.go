package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Storage persists generated media and exposes public URLs for it.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// MediaKey builds an object key for a generated asset, partitioned by user
// and day so buckets stay browsable.
func MediaKey(userID uuid.UUID, kind, ext string) string {
	return fmt.Sprintf("media/%s/%s/%s-%s%s",
		kind,
		time.Now().UTC().Format("2006-01-02"),
		userID.String(),
		uuid.New().String(),
		ext,
	)
}

// ExtForMime maps the mime types the generation services produce to file
// extensions.
func ExtForMime(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "video/mp4":
		return ".mp4"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	default:
		return ".bin"
	}
}
