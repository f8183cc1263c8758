package repository

import "errors"

// ErrMissingID is returned by Update when the entity carries no id. The
// previous behavior was a silent no-op; callers must now handle it.
var ErrMissingID = errors.New("missing record id")
