package models

import "errors"

// ErrNotFound is the shared sentinel for a missing entity. Storage
// implementations wrap it with context; callers match via errors.Is.
var ErrNotFound = errors.New("not found")
