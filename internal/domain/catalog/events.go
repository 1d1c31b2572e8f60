package catalog

import "time"

const (
	EventProductUpserted = "ProductUpserted"
	EventProductDeleted  = "ProductDeleted"
)

type ProductUpserted struct {
	ProductID   string    `json:"product_id"`
	Handle      string    `json:"handle,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	Variants    []Variant `json:"variants"`
	UpsertedAt  time.Time `json:"upserted_at"`
}

type ProductDeleted struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
