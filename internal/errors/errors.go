package errors

import "errors"

// Client errors.
var (
	ErrUploadFailed  = errors.New("file upload failed")
	ErrAccessDenied  = errors.New("access gateway challenge not satisfied")
	ErrFileNotExists = errors.New("local file does not exist")
)

// Server/transport errors.
var (
	ErrAPIRequest  = errors.New("API request failed")
	ErrAPIResponse = errors.New("unexpected API response")
)
