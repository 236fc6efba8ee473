package domain

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	Images      []Image   `bson:"images" json:"images"`
	Variants    []Variant `bson:"variants" json:"variants"`
	BasePrice   float64   `bson:"base_price" json:"basePrice"`
	Tags        []string  `bson:"tags" json:"tags"`
	Featured    bool      `bson:"featured" json:"featured"`
	Status      string    `bson:"status" json:"status"`
	SEO         SEO       `bson:"seo" json:"seo"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

type Image struct {
	URL       string `bson:"url" json:"url"`
	Alt       string `bson:"alt" json:"alt"`
	IsPrimary bool   `bson:"is_primary" json:"isPrimary"`
}

// Variant is one sellable configuration of a product with its own price
// and stock count.
type Variant struct {
	ID             string   `bson:"variant_id" json:"id"`
	Size           string   `bson:"size" json:"size"`
	Color          string   `bson:"color" json:"color"`
	SKU            string   `bson:"sku" json:"sku"`
	Price          float64  `bson:"price" json:"price"`
	CompareAtPrice float64  `bson:"compare_at_price,omitempty" json:"compareAtPrice,omitempty"`
	Stock          int      `bson:"stock" json:"stock"`
	Images         []string `bson:"images" json:"images"`
}

type SEO struct {
	MetaTitle       string `bson:"meta_title,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string `bson:"meta_description,omitempty" json:"metaDescription,omitempty"`
}

// ProductSummary is the projection joined onto cart items so the caller
// can render a cart without a second catalog round trip.
type ProductSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Images    []Image   `json:"images"`
	BasePrice float64   `json:"basePrice"`
	Variants  []Variant `json:"variants"`
}

// Summary builds the cart projection of a product.
func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Images:    p.Images,
		BasePrice: p.BasePrice,
		Variants:  p.Variants,
	}
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
