package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Fetchers and adapters return
// these (optionally wrapped) so callers can branch on the fact without
// knowing which list or transport produced it.
//
// - ErrNotFound: the expected resource or link does not exist
// - ErrUnavailable: a remote service or resource could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
