package domain

import "time"

// Cart is the authoritative cart document for one anonymous session.
// Version is a monotonic counter used for optimistic concurrency: every
// mutation replaces the document with version+1 and the write is rejected
// when another writer got there first.
type Cart struct {
	ID           string     `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID    string     `bson:"session_id" json:"sessionId"`
	Items        []CartItem `bson:"items" json:"items"`
	Version      int64      `bson:"version" json:"version"`
	LastActivity time.Time  `bson:"last_activity" json:"lastActivity"`
	ExpiresAt    time.Time  `bson:"expires_at" json:"expiresAt"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updatedAt"`
}

type CartItem struct {
	ID        string    `bson:"item_id" json:"id"`
	ProductID string    `bson:"product_id" json:"productId"`
	VariantID string    `bson:"variant_id" json:"variantId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`

	// Product is populated at read time from the catalog, never persisted.
	Product *ProductSummary `bson:"-" json:"product,omitempty"`
}

// FindItem returns the index of the item with the given id, or -1.
func (c *Cart) FindItem(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// FindLine returns the index of the item holding the given
// (product, variant) pair, or -1.
func (c *Cart) FindLine(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}
