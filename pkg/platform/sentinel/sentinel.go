package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and platform adapters return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: key or record does not exist in the backing store
// - ErrInvalidState: component in wrong state for requested operation
// - ErrUnavailable: platform service temporarily unavailable
// - ErrUnsupported: operation refused for the calling process
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrUnsupported  = errors.New("operation not supported")
)
