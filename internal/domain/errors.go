package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNotInCart        = errors.New("product is not in cart")
	ErrStockExceeded    = errors.New("requested amount exceeds stock")
	ErrInvalidProductID = errors.New("product id must be positive")
)
