package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrType reports an operand combination the element-wise model can't express,
	// such as a scalar minus a vector.
	ErrType = errors.New("unsupported operand")
	// ErrValue reports a malformed or degenerate input.
	ErrValue = errors.New("invalid value")
	// ErrIndex reports an index or slice bound outside a range.
	ErrIndex = errors.New("index out of range")
	// ErrNotFound is returned by the Index family. It wraps ErrValue.
	ErrNotFound = fmt.Errorf("%w: not in range", ErrValue)
)
