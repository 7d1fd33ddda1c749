package processor

import (
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/ptpimg-uploader/internal/models"
	"github.com/phambaophuc/ptpimg-uploader/pkg/utils"
	"go.uber.org/zap"

	// Decoders imaging does not register itself.
	_ "golang.org/x/image/webp"
)

const defaultQuality = 85

// ImageProcessor writes resized copies of local images next to the source.
type ImageProcessor struct {
	quality int
	logger  *zap.Logger
}

func NewImageProcessor(quality int, logger *zap.Logger) *ImageProcessor {
	if quality < 1 || quality > 100 {
		quality = defaultQuality
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageProcessor{
		quality: quality,
		logger:  logger,
	}
}

// GenerateThumbnail resizes the image at path to size and returns the path of
// the new file.
func (p *ImageProcessor) GenerateThumbnail(path string, size models.ThumbnailSize) (string, error) {
	img, err := imaging.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	width, height := size.Dimensions(bounds.Dx(), bounds.Dy())
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("cannot scale %s (%dx%d) to %d", path, bounds.Dx(), bounds.Dy(), size.Target)
	}

	thumb := p.resizeImage(img, width, height)

	output, format := thumbnailPath(filepath.Clean(path), width, height)
	if err := p.saveImage(output, thumb, format); err != nil {
		return "", fmt.Errorf("failed to save thumbnail %s: %w", output, err)
	}

	p.logger.Debug("Thumbnail created",
		zap.String("source", path),
		zap.String("thumbnail", output),
		zap.Int("width", width),
		zap.Int("height", height))

	return output, nil
}

// GenerateThumbnails processes paths in order and stops at the first failure.
func (p *ImageProcessor) GenerateThumbnails(paths []string, size models.ThumbnailSize) ([]string, error) {
	thumbs := make([]string, 0, len(paths))
	for _, path := range paths {
		thumb, err := p.GenerateThumbnail(path, size)
		if err != nil {
			return nil, err
		}
		thumbs = append(thumbs, thumb)
	}
	return thumbs, nil
}

// thumbnailPath keeps the source format when imaging can encode it and falls
// back to PNG otherwise.
func thumbnailPath(source string, width, height int) (string, imaging.Format) {
	format, err := imaging.FormatFromFilename(source)
	if err != nil {
		ext := filepath.Ext(source)
		return utils.ThumbnailFilename(source[:len(source)-len(ext)]+".png", width, height), imaging.PNG
	}
	return utils.ThumbnailFilename(source, width, height), format
}
