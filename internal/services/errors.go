package services

import "errors"

// Client-facing failures. Anything else coming out of FileService is an internal failure.
var (
	ErrNoFile             = errors.New("no file provided")
	ErrMultipleFiles      = errors.New("only one file per upload is allowed")
	ErrInvalidPin         = errors.New("invalid PIN format")
	ErrFileNotFound       = errors.New("file not found")
	ErrBlobMissing        = errors.New("file not found on server")
	ErrFileTooLarge       = errors.New("file too large")
	ErrBlockedFileType    = errors.New("file type not allowed")
	ErrMimeTypeNotAllowed = errors.New("MIME type not allowed")
)
