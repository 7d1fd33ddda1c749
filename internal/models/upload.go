package models

import (
	"errors"
	"io"
)

// UploadItem is one image ready to be sent as a multipart part.
type UploadItem struct {
	Name      string
	MediaType string
	Payload   io.ReadCloser
}

// UploadBatch is the ordered set of items submitted in a single request.
// The Nth item corresponds to the Nth HostedImage of the response.
type UploadBatch []UploadItem

// Close releases every payload in the batch and reports all close failures.
func (b UploadBatch) Close() error {
	var errs []error
	for _, item := range b {
		if item.Payload == nil {
			continue
		}
		if err := item.Payload.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HostedImage is the descriptor ptpimg.me returns per uploaded image.
type HostedImage struct {
	Code string `json:"code"`
	Ext  string `json:"ext"`
}
