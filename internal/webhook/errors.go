package webhook

import "errors"

var (
	// ErrMalformedPayload means the request body could not be turned into an
	// InboundEvent. The only case surfaced to the provider as HTTP 500.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrStorageUnavailable means a persistence call failed. The provider
	// still receives a 200 acknowledgment.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrIncompleteCommand means a recognized intent was missing a required
	// parameter. Reported back to the sender, never to the provider.
	ErrIncompleteCommand = errors.New("incomplete command")
)
