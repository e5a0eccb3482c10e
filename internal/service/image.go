package service

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// Uploaded product photos are bounded to this dimension before storage.
	defaultMaxDimension = 1200
	defaultJPEGQuality  = 80
)

// ImageOptimizer re-encodes uploaded product images: decode, shrink to the
// maximum dimension when oversized (aspect ratio preserved), JPEG output.
type ImageOptimizer struct {
	maxDimension int
	quality      int
}

// NewImageOptimizer returns an optimizer with the storefront defaults.
func NewImageOptimizer() *ImageOptimizer {
	return &ImageOptimizer{
		maxDimension: defaultMaxDimension,
		quality:      defaultJPEGQuality,
	}
}

// Optimize returns the JPEG-encoded, size-bounded version of raw image bytes.
func (o *ImageOptimizer) Optimize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > o.maxDimension || bounds.Dy() > o.maxDimension {
		img = imaging.Fit(img, o.maxDimension, o.maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(o.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}
