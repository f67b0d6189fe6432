package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// Config bounds uploaded reference images before they are sent to the model.
type Config struct {
	MaxWidth  int
	MaxHeight int
	Quality   int // JPEG quality 1-100
}

// DefaultConfig returns the bounds used for influencer/product uploads.
func DefaultConfig() Config {
	return Config{
		MaxWidth:  2000,
		MaxHeight: 2000,
		Quality:   85,
	}
}

// Normalized is a decoded, size-capped upload ready for a model call.
type Normalized struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Normalizer validates and downscales uploaded reference images.
type Normalizer struct {
	config Config
}

// NewNormalizer creates an upload normalizer
func NewNormalizer(config Config) *Normalizer {
	if config.MaxWidth <= 0 || config.MaxHeight <= 0 {
		config = DefaultConfig()
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = 85
	}
	return &Normalizer{config: config}
}

// Normalize decodes an uploaded image, rejects non-images, and downscales
// anything larger than the configured bounds. PNG stays PNG; everything
// else is re-encoded as JPEG.
func (n *Normalizer) Normalize(data []byte) (*Normalized, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	if width <= n.config.MaxWidth && height <= n.config.MaxHeight && (format == "jpeg" || format == "png") {
		return &Normalized{
			Data:        data,
			ContentType: mimeFromFormat(format),
			Width:       width,
			Height:      height,
		}, nil
	}

	resized := imaging.Fit(img, n.config.MaxWidth, n.config.MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	contentType := "image/jpeg"
	if format == "png" {
		contentType = "image/png"
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: n.config.Quality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode image: %w", err)
	}

	return &Normalized{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Width:       resized.Bounds().Dx(),
		Height:      resized.Bounds().Dy(),
	}, nil
}

func mimeFromFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
