package catalog

import "errors"

var (
	ErrProductNotFound = errors.New("catalog.product_not_found")
	ErrProductExists   = errors.New("catalog.product_exists")
	ErrInvalidProduct  = errors.New("catalog.invalid_product")
	ErrInvalidSeed     = errors.New("catalog.invalid_seed")
	ErrStoreFailure    = errors.New("catalog.store_failure")
)
