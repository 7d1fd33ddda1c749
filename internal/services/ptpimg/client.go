package ptpimg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/ptpimg-uploader/internal/config"
	"github.com/phambaophuc/ptpimg-uploader/internal/models"
	"github.com/phambaophuc/ptpimg-uploader/pkg/utils"
	"go.uber.org/zap"
)

const apiKeyField = "api_key"

type Options struct {
	Endpoint   string
	Referer    string
	Host       string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client submits image batches to ptpimg.me. It keeps no state between
// calls and never retries.
type Client struct {
	endpoint string
	referer  string
	host     string
	client   *http.Client
	logger   *zap.Logger
}

func NewClient(opts Options) *Client {
	c := &Client{
		endpoint: opts.Endpoint,
		referer:  opts.Referer,
		host:     opts.Host,
		client:   opts.HTTPClient,
		logger:   opts.Logger,
	}
	if c.endpoint == "" {
		c.endpoint = config.DefaultEndpoint
	}
	if c.referer == "" {
		c.referer = config.DefaultReferer
	}
	if c.host == "" {
		c.host = config.DefaultHost
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// URL maps a hosted image descriptor to its public address.
func (c *Client) URL(img models.HostedImage) string {
	return URL(c.host, img)
}

func URL(host string, img models.HostedImage) string {
	return fmt.Sprintf("https://%s/%s.%s", host, img.Code, img.Ext)
}

// Submit uploads batch in a single multipart request and returns the hosted
// descriptors in response order, which matches submission order.
func (c *Client) Submit(ctx context.Context, apiKey string, batch models.UploadBatch, timeout time.Duration) ([]models.HostedImage, error) {
	if len(batch) == 0 {
		return nil, &models.InvalidInputError{Reason: "empty upload batch"}
	}

	batchID := uuid.NewString()
	logger := c.logger.With(zap.String("batch_id", batchID))

	body, contentType, err := encodeBatch(apiKey, batch)
	if err != nil {
		return nil, err
	}

	ctx, cancel := utils.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, &models.UploadError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Referer", c.referer)

	logger.Debug("Submitting batch",
		zap.String("endpoint", c.endpoint),
		zap.Int("items", len(batch)),
		zap.Int("bytes", body.Len()))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &models.UploadError{Timeout: utils.IsTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.UploadError{
			StatusCode: resp.StatusCode,
			Timeout:    utils.IsTimeout(err),
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Upload rejected", zap.Int("status", resp.StatusCode))
		return nil, &models.UploadError{StatusCode: resp.StatusCode, Body: respBody}
	}

	images, err := decodeResponse(respBody, len(batch))
	if err != nil {
		return nil, &models.MalformedResponseError{Err: err, Body: respBody}
	}

	logger.Debug("Batch uploaded", zap.Int("images", len(images)))
	return images, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// FieldName is the form field of the i-th image in a batch.
func FieldName(i int) string {
	return fmt.Sprintf("file-upload[%d]", i)
}

func encodeBatch(apiKey string, batch models.UploadBatch) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField(apiKeyField, apiKey); err != nil {
		return nil, "", fmt.Errorf("failed to write api key field: %w", err)
	}

	for i, item := range batch {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(FieldName(i)), quoteEscaper.Replace(item.Name)))
		header.Set("Content-Type", item.MediaType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part for %s: %w", item.Name, err)
		}
		if _, err := io.Copy(part, item.Payload); err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", item.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

func decodeResponse(body []byte, expected int) ([]models.HostedImage, error) {
	var images []models.HostedImage
	if err := json.Unmarshal(body, &images); err != nil {
		return nil, err
	}

	if len(images) != expected {
		return nil, fmt.Errorf("expected %d images in response, got %d", expected, len(images))
	}

	for i, img := range images {
		if img.Code == "" || img.Ext == "" {
			return nil, fmt.Errorf("image %d is missing code or ext", i)
		}
	}

	return images, nil
}
