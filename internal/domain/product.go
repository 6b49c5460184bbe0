package domain

import "time"

// Product is a catalog entry. Price is in pesos (smallest currency unit).
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
