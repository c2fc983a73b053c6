package domain

import "errors"

// ErrNotFound is returned by store lookups that find no matching row.
var ErrNotFound = errors.New("not found")
