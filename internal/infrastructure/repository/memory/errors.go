package memory

import "github.com/go-faster/errors"

// ErrClosed is returned by operations on a closed repository.
var ErrClosed = errors.New("memory repository: closed")
