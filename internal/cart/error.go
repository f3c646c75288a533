package cart

import "errors"

var (
	// -- Validation & Input --
	ErrSessionRequired = errors.New("cart session id is required")
	ErrLineIDRequired  = errors.New("cart line id is required")

	// -- Resource State --
	ErrCartItemNotFound = errors.New("cart item not found")
)
