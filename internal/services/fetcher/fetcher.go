package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/phambaophuc/ptpimg-uploader/internal/models"
	"github.com/phambaophuc/ptpimg-uploader/pkg/utils"
	"go.uber.org/zap"
)

// Fetcher turns local paths and remote URLs into upload items.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

func NewFetcher(client *http.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// ValidateMediaType rejects anything outside the image category.
func ValidateMediaType(name, mediaType string) error {
	if mediaType == "" || !utils.IsImageType(mediaType) {
		return &models.UnknownMediaTypeError{Name: name, MediaType: mediaType}
	}
	return nil
}

// FetchFile opens path for the upload. The media type is guessed from the
// extension before the file is opened, so a rejected file is never held.
// The caller owns the returned payload and must close it.
func (f *Fetcher) FetchFile(path string) (models.UploadItem, error) {
	mediaType := utils.MediaTypeByFilename(path)
	if err := ValidateMediaType(path, mediaType); err != nil {
		return models.UploadItem{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return models.UploadItem{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	name := utils.LatinSafeFilename(path)
	if name == utils.PlaceholderFilename {
		f.logger.Debug("Filename is not Latin-1 safe, using placeholder",
			zap.String("path", path))
	}

	return models.UploadItem{
		Name:      name,
		MediaType: mediaType,
		Payload:   file,
	}, nil
}

// FetchURL downloads the image at rawURL into memory. index names the item
// within its batch.
func (f *Fetcher) FetchURL(ctx context.Context, rawURL string, index int, timeout time.Duration) (models.UploadItem, error) {
	ctx, cancel := utils.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.UploadItem{}, &models.FetchError{URL: rawURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return models.UploadItem{}, &models.FetchError{URL: rawURL, Timeout: utils.IsTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.UploadItem{}, &models.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	mediaType := ""
	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		mediaType = utils.BaseMediaType(contentType)
	}
	if err := ValidateMediaType(rawURL, mediaType); err != nil {
		return models.UploadItem{}, err
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.UploadItem{}, &models.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Timeout:    utils.IsTimeout(err),
			Err:        fmt.Errorf("failed to read image data: %w", err),
		}
	}

	f.logger.Debug("Fetched remote image",
		zap.String("url", rawURL),
		zap.String("media_type", mediaType),
		zap.Int("bytes", len(imageData)))

	return models.UploadItem{
		Name:      utils.RemoteFilename(index),
		MediaType: mediaType,
		Payload:   io.NopCloser(bytes.NewReader(imageData)),
	}, nil
}
