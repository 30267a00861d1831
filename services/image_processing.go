package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	lookImageMaxSide = 1024
	lookImageQuality = 82
)

// NormalizeLookImage flattens a generated look onto white, shrinks it to fit
// lookImageMaxSide and re-encodes it as JPEG.
func NormalizeLookImage(imageBytes []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	var flat image.Image = imaging.Overlay(background, img, image.Pt(0, 0), 1.0)

	if bounds.Dx() > lookImageMaxSide || bounds.Dy() > lookImageMaxSide {
		flat = imaging.Fit(flat, lookImageMaxSide, lookImageMaxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(lookImageQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
