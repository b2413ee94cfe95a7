package config

import "errors"

// Configuration validation errors, returned (possibly wrapped) by
// Config.Validate so callers can match them with errors.Is.
var (
	// ErrUnknownDriver is returned when storage.driver names no supported store.
	ErrUnknownDriver = errors.New("unknown storage driver")

	// ErrMissingStorageTarget is returned when the chosen driver has nothing
	// to connect to: no path for sqlite/file, no uri or host for servers.
	ErrMissingStorageTarget = errors.New("missing storage target")

	// ErrWatchNeedsFileDriver is returned when storage.watch is set for a
	// driver that has no file on disk to watch.
	ErrWatchNeedsFileDriver = errors.New("storage.watch requires the file driver")

	// ErrEmptySlotKey is returned when storage.slot_key is blank.
	ErrEmptySlotKey = errors.New("storage.slot_key must not be empty")

	// ErrInvalidLatency is returned when the mock latency range is negative
	// or inverted.
	ErrInvalidLatency = errors.New("invalid mock latency range")

	// ErrInvalidRowRange is returned when the table row range is not positive
	// or inverted.
	ErrInvalidRowRange = errors.New("invalid mock table row range")
)
