package tomd

import "errors"

var (
	// ErrNoClient means the converter was built without a fetch client.
	ErrNoClient = errors.New("notion client is not configured")

	// ErrNilBlock means a render call received no block. This is a caller
	// bug, not a remote failure, and is never retried.
	ErrNilBlock = errors.New("cannot render a nil block")
)
