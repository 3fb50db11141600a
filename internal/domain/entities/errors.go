package entities

import "errors"

// ErrItemNotFound is returned by stores when a user has no progress for a word.
var ErrItemNotFound = errors.New("learning item not found")
