package physics

import "errors"

var (
	// ErrParameterBounds indicates a physical parameter outside its valid range.
	ErrParameterBounds = errors.New("physics: parameter out of valid bounds")

	// ErrNonFinite indicates a state holding NaN or Inf.
	ErrNonFinite = errors.New("physics: non-finite state (NaN or Inf detected)")
)
