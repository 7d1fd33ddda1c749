package processor

import (
	"image"
	"os"

	"github.com/disintegration/imaging"
)

func (p *ImageProcessor) saveImage(path string, img image.Image, format imaging.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := imaging.Encode(file, img, format, imaging.JPEGQuality(p.quality)); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	return file.Close()
}
