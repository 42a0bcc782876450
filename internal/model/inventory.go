package model

// DefaultMinStock is applied when no minimum-stock threshold is supplied.
const DefaultMinStock = 10

type InventoryItem struct {
	Base
	Name     string `db:"name" json:"name"`
	Category string `db:"category" json:"category,omitempty"`
	Quantity int    `db:"quantity" json:"quantity"`
	MinStock int    `db:"min_stock" json:"min_stock"`
	Unit     string `db:"unit" json:"unit,omitempty"`
}

// IsLowStock reports whether the item is at or below its minimum-stock
// threshold. Derived at read time, never stored.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}

type CreateInventoryItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Quantity int    `json:"quantity" binding:"omitempty,min=0"`
	MinStock int    `json:"min_stock" binding:"omitempty,min=0"`
	Unit     string `json:"unit"`
}

type UpdateInventoryItemRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Quantity *int    `json:"quantity" binding:"omitempty,min=0"`
	MinStock *int    `json:"min_stock" binding:"omitempty,min=0"`
	Unit     *string `json:"unit"`
}
