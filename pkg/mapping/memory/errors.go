package memory

import "errors"

var errClosed = errors.New("memory mapping store is closed")
