package pipeline

import "errors"

// Error taxonomy shared by the source client, the stores and the driver.
// The driver routes on these with errors.Is: source and store failures halt
// the walk without advancing the checkpoint, malformed entities are logged
// and skipped so the rest of the page can proceed.
var (
	// ErrSourceUnavailable marks a network/HTTP failure on a page or detail
	// fetch. Retrying the same token is safe, reads are idempotent.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedEntity marks a raw entity whose natural key is absent.
	// The record is dropped, the page continues.
	ErrMalformedEntity = errors.New("malformed entity")

	// ErrStoreUnavailable marks a persistence failure. The page must abort
	// before checkpointing, never silently continue.
	ErrStoreUnavailable = errors.New("store unavailable")
)
