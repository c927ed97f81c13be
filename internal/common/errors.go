// Package common defines the sentinel errors shared by the stores, the sharing
// service and the presentation layers of LanShare. Callers should use
// errors.Is to match these values; concrete failures are wrapped around them.
package common

import "errors"

var (
	// ErrorValidation reports unusable input: empty text, empty file name,
	// a declared size that does not match the payload, an unsafe blob name.
	ErrorValidation = errors.New("validation error")

	// ErrorPayloadTooLarge reports a file above the configured upload ceiling.
	ErrorPayloadTooLarge = errors.New("payload too large")

	// ErrorNotFound is returned by lookups by id or by stored name.
	ErrorNotFound = errors.New("not found")

	// ErrorStorage wraps any disk, object storage or database failure.
	ErrorStorage = errors.New("storage i/o error")
)
