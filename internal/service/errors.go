package service

import (
	"errors"
	"fmt"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("product variant not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmailTaken      = errors.New("admin with this email already exists")
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrSlugTaken       = errors.New("product with this slug already exists")
)

// ValidationError carries a user-facing message for rejected input.
// Handlers surface it as a 400 with the message intact.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InsufficientStockError reports how many units are actually available so
// the client can display it.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d item(s) available in stock", e.Available)
}
