package uploader

import (
	"context"
	"time"

	"github.com/phambaophuc/ptpimg-uploader/internal/models"
	"github.com/phambaophuc/ptpimg-uploader/internal/services/source"
	"go.uber.org/zap"
)

type Fetcher interface {
	FetchFile(path string) (models.UploadItem, error)
	FetchURL(ctx context.Context, rawURL string, index int, timeout time.Duration) (models.UploadItem, error)
}

type Submitter interface {
	Submit(ctx context.Context, apiKey string, batch models.UploadBatch, timeout time.Duration) ([]models.HostedImage, error)
	URL(img models.HostedImage) string
}

// Service sequences classification, fetching, submission and URL mapping.
// It holds no per-call state.
type Service struct {
	fetcher Fetcher
	client  Submitter
	logger  *zap.Logger
}

type Params struct {
	Fetcher Fetcher
	Client  Submitter
	Logger  *zap.Logger
}

func NewService(p Params) *Service {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: p.Fetcher,
		client:  p.Client,
		logger:  logger,
	}
}

// Upload hosts every input and returns the URLs of local files followed by
// the URLs of remote images, each group in input order. Files and URLs are
// submitted as two separate batches; any failure aborts the batch it
// belongs to before anything from that batch is sent.
func (s *Service) Upload(ctx context.Context, apiKey string, inputs []string, timeout time.Duration) ([]string, error) {
	if apiKey == "" {
		return nil, &models.InvalidInputError{Reason: "empty api key"}
	}

	files, urls, err := source.Classify(inputs)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Classified inputs",
		zap.Int("files", len(files)),
		zap.Int("urls", len(urls)))

	results := make([]string, 0, len(files)+len(urls))

	if len(files) > 0 {
		fileURLs, err := s.UploadFiles(ctx, apiKey, files, timeout)
		if err != nil {
			return nil, err
		}
		results = append(results, fileURLs...)
	}

	if len(urls) > 0 {
		remoteURLs, err := s.UploadURLs(ctx, apiKey, urls, timeout)
		if err != nil {
			return nil, err
		}
		results = append(results, remoteURLs...)
	}

	return results, nil
}

// UploadFiles submits local files as one batch.
func (s *Service) UploadFiles(ctx context.Context, apiKey string, paths []string, timeout time.Duration) ([]string, error) {
	batch := make(models.UploadBatch, 0, len(paths))
	defer func() {
		if err := batch.Close(); err != nil {
			s.logger.Warn("Failed to close upload files", zap.Error(err))
		}
	}()

	for _, path := range paths {
		item, err := s.fetcher.FetchFile(path)
		if err != nil {
			return nil, err
		}
		batch = append(batch, item)
	}

	return s.submit(ctx, apiKey, batch, timeout)
}

// UploadURLs downloads every remote image, then submits them as one batch.
func (s *Service) UploadURLs(ctx context.Context, apiKey string, urls []string, timeout time.Duration) ([]string, error) {
	batch := make(models.UploadBatch, 0, len(urls))
	defer func() { _ = batch.Close() }()

	for i, rawURL := range urls {
		item, err := s.fetcher.FetchURL(ctx, rawURL, i, timeout)
		if err != nil {
			return nil, err
		}
		batch = append(batch, item)
	}

	return s.submit(ctx, apiKey, batch, timeout)
}

func (s *Service) submit(ctx context.Context, apiKey string, batch models.UploadBatch, timeout time.Duration) ([]string, error) {
	images, err := s.client.Submit(ctx, apiKey, batch, timeout)
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = s.client.URL(img)
	}
	return urls, nil
}
