package models

import "fmt"

type ThumbnailSize struct {
	Name   string
	Target int
}

var (
	ThumbnailDefault = ThumbnailSize{Name: "default", Target: 320}
	ThumbnailLarge   = ThumbnailSize{Name: "large", Target: 480}
	ThumbnailXLarge  = ThumbnailSize{Name: "xlarge", Target: 640}
)

// CustomThumbnail returns a size whose longest constrained edge is n pixels.
func CustomThumbnail(n int) (ThumbnailSize, error) {
	if n <= 0 {
		return ThumbnailSize{}, fmt.Errorf("max scale must be a positive integer, got %d", n)
	}
	return ThumbnailSize{Name: "custom", Target: n}, nil
}

// Dimensions scales width x height to the target. Portrait images taller than
// the target are bounded by height; everything else is scaled to the target
// width, which enlarges images narrower than the target.
func (s ThumbnailSize) Dimensions(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}

	target := float64(s.Target)
	if height > width && height > s.Target {
		return int(float64(width) * (target / float64(height))), s.Target
	}
	return s.Target, int(float64(height) * (target / float64(width)))
}
