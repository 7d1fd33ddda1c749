package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownMediaType  = errors.New("unknown media type")
	ErrFetchFailed       = errors.New("fetch failed")
	ErrUploadFailed      = errors.New("upload failed")
	ErrResponseMalformed = errors.New("response malformed")
)

// InvalidInputError is returned for an argument that is neither an existing
// path nor URL-shaped.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.Reason != "" && e.Input == "":
		return "invalid input: " + e.Reason
	case e.Reason != "":
		return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("not an existing file or image URL: %s", e.Input)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

type UnknownMediaTypeError struct {
	Name      string
	MediaType string
}

func (e *UnknownMediaTypeError) Error() string {
	if e.MediaType == "" {
		return fmt.Sprintf("unknown image file type for %s", e.Name)
	}
	return fmt.Sprintf("unknown image file type %s for %s", e.MediaType, e.Name)
}

func (e *UnknownMediaTypeError) Is(target error) bool { return target == ErrUnknownMediaType }

// FetchError reports a remote image that could not be downloaded. StatusCode
// is zero when the request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("cannot fetch url %s: timed out: %v", e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("cannot fetch url %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("cannot fetch url %s with status %d", e.URL, e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// UploadError reports a failed POST to the hosting endpoint. Body holds the
// raw response body when a response was received.
type UploadError struct {
	StatusCode int
	Body       []byte
	Timeout    bool
	Err        error
}

func (e *UploadError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("upload failed: timed out: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("upload failed: %v", e.Err)
	default:
		return fmt.Sprintf("upload failed with status %d:\n%s", e.StatusCode, e.Body)
	}
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) Is(target error) bool { return target == ErrUploadFailed }

// MalformedResponseError is returned when the upload succeeded but its body
// could not be decoded into hosted image descriptors.
type MalformedResponseError struct {
	Err  error
	Body []byte
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed decoding body: %v\n%q", e.Err, e.Body)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrResponseMalformed }
