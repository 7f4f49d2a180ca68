package catalog

import "errors"

// ErrInvalidInput indicates the listing payload is absent or not a JSON object.
var ErrInvalidInput = errors.New("invalid data provided")
