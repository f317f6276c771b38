package domain

import "time"

// Product is a catalog entry. PriceCents keeps money integral; the JSON field
// is still called "price" for client compatibility.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price"`
	ImageURL    string    `json:"image,omitempty"` // empty when the product has no image
	Category    string    `json:"category"`
	IsFeatured  bool      `json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
