package history

import "errors"

var ErrCycleFailed = errors.New("cleanup cycle failed")
