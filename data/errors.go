package data

import "errors"

var ErrNotContainer = errors.New("read of property on undefined")
