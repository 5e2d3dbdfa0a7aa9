package domain

import "errors"

// ErrItemNotFound is returned when a name is not part of the catalog or has no stored row.
var ErrItemNotFound = errors.New("item not found")

// ErrDuplicateItem is returned when a catalog definition declares the same name twice.
var ErrDuplicateItem = errors.New("duplicate item")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoSession is returned when an answer arrives for a conversation that is not collecting.
var ErrNoSession = errors.New("no collection in progress")

// ErrPersistence wraps value store failures. The session cursor is not advanced when it is returned.
var ErrPersistence = errors.New("persistence failure")

// ErrInconsistent marks a catalog entry that has no matching row in the value store.
// It indicates a seeding defect rather than an operator error.
var ErrInconsistent = errors.New("catalog and value store are inconsistent")
