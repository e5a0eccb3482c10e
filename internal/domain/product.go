package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents one catalog item of the storefront.
//
// Price is a verbatim display string (e.g. "1.500 MT"), never parsed as a
// number. SortOrder is assigned and maintained by the store; the admin
// workflow only reads it.
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     string    `json:"price" db:"price"`
	Category  string    `json:"category" db:"category"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	Visible   bool      `json:"visible" db:"visible"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
