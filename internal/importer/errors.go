// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrPathTraversal indicates a path would escape its root directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrSizeMismatch indicates a copied file differs in size from its source,
	// so the source was kept.
	ErrSizeMismatch = errors.New("copied size differs from source")

	// ErrInvalidName indicates a typed replacement name that cannot be used.
	ErrInvalidName = errors.New("invalid file name")

	// ErrUnformattable indicates the parser could not name a file.
	ErrUnformattable = errors.New("cannot infer a name")

	// ErrNoMediaType indicates no media type could be determined for a title.
	ErrNoMediaType = errors.New("no media type for title")
)
