package blob

import "errors"

// ErrNotFound is returned when a handle does not reference a stored blob
var ErrNotFound = errors.New("blob not found")

// Store is the boundary to the binary storage backing uploaded documents and
// images. Size and content-type policy is enforced by callers, not here.
type Store interface {
	// Store persists the bytes and returns an opaque handle
	Store(data []byte, contentType string) (string, error)
	// Fetch returns the bytes referenced by handle
	Fetch(handle string) ([]byte, error)
	// Delete releases the blob referenced by handle
	Delete(handle string) error
}
