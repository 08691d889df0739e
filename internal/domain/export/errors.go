package export

import "errors"

var (
	// ErrJobNotFound covers absence and jobs requested by someone else
	ErrJobNotFound = errors.New("export job not found")

	// ErrUnknownKind means the requested export kind is not supported
	ErrUnknownKind = errors.New("unknown export kind")
)
