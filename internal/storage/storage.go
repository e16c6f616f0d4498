// Package storage persists the imported profile entities. Both backends
// overwrite the whole entity under its key; nothing is merged.
package storage

import "errors"

var ErrNotFound = errors.New("not found")
