package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached      = errors.New("store is detached")
	ErrAlreadyAttached    = errors.New("store is already attached")
	ErrCollectionNotFound = errors.New("collection not found")
)

// Record operation errors. None of these is ever retried.
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidID        = errors.New("invalid record ID")
	ErrInvalidData      = errors.New("invalid record data")
	ErrInvalidFilter    = errors.New("invalid filter value type")
	ErrPermissionDenied = errors.New("caller does not own this namespace")
)

// ErrTransient classifies failures worth retrying: network failures and
// backend unavailability. Stores wrap the final error in this sentinel after
// the retry budget is exhausted.
var ErrTransient = errors.New("transient store error")

// ErrChecksumMismatch marks a layer whose recomputed checksum differs from
// the stored one. Import reports it inside VerifyReport; it is never thrown
// past the engine boundary.
var ErrChecksumMismatch = errors.New("checksum mismatch: possible corruption")
