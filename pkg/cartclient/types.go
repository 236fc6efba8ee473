// Package cartclient is the storefront-side cart controller: it mirrors a
// session's cart for immediate UI feedback, talks to the cart API with
// retry and circuit breaking, and reconciles local state with the server's
// authoritative answer.
package cartclient

import (
	"fmt"
	"time"
)

// Cart mirrors the wire shape returned by the cart API.
type Cart struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Items     []Item    `json:"items"`
	Version   int64     `json:"version"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Item struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"addedAt"`
	Product   *ProductSummary `json:"product,omitempty"`
}

type ProductSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Images    []Image   `json:"images"`
	BasePrice float64   `json:"basePrice"`
	Variants  []Variant `json:"variants"`
}

type Image struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"isPrimary"`
}

type Variant struct {
	ID    string  `json:"id"`
	Size  string  `json:"size"`
	Color string  `json:"color"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// AddItemRequest is the add-to-cart mutation payload.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// APIError is a structured error response from the cart API.
// Server-side failures (5xx) are transient and retried; client-side
// validation failures (4xx) are permanent and surface immediately.
type APIError struct {
	StatusCode     int
	Message        string
	AvailableStock int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("cart API error (status %d)", e.StatusCode)
}

// Transient reports whether retrying the request could succeed.
func (e *APIError) Transient() bool {
	return e.StatusCode >= 500
}
