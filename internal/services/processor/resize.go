package processor

import (
	"image"

	"github.com/disintegration/imaging"
)

func (p *ImageProcessor) resizeImage(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
