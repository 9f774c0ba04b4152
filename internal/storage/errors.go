package storage

import "errors"

var (
	ErrEmptyFile           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedFileType = errors.New("file type is not allowed")
	ErrUnknownNamespace    = errors.New("unknown upload namespace")
)
