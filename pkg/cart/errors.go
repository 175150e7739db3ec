package cart

import "errors"

var (
	ErrNoUser          = errors.New("cart.no_user")
	ErrInvalidQuantity = errors.New("cart.invalid_quantity")
	ErrStoreFailure    = errors.New("cart.store_failure")
)
