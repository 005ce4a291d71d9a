package models

import "errors"

// ErrDuplicateKey is returned by storage when an insert collides with a unique key.
var ErrDuplicateKey = errors.New("duplicate key")
