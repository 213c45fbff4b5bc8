package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is a single inventory record. The store assigns the identifier on
// creation; the bson/json tag pair renames the internal _id field to a plain
// "id" hex string on the wire.
type Item struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	SKU      string             `json:"sku" bson:"sku"`
	Category string             `json:"category" bson:"category"`
	Location string             `json:"location" bson:"location"`
	Quantity int                `json:"quantity" bson:"quantity"`
	MinStock int                `json:"min_stock" bson:"min_stock"`
	Cost     float64            `json:"cost" bson:"cost"`
	Price    float64            `json:"price" bson:"price"`
}

// LowOnStock reports whether the item sits below its reorder threshold.
func (i *Item) LowOnStock() bool {
	return i.MinStock > i.Quantity
}

type CreateItemRequest struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Category string  `json:"category"`
	Location string  `json:"location"`
	Quantity int     `json:"quantity"`
	MinStock int     `json:"min_stock"`
	Cost     float64 `json:"cost"`
	Price    float64 `json:"price"`
}

func (r *CreateItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Item name is required"
	}
	if strings.TrimSpace(r.SKU) == "" {
		errors["sku"] = "SKU is required"
	}
	if r.Quantity < 0 {
		errors["quantity"] = "Quantity cannot be negative"
	}
	if r.MinStock < 0 {
		errors["min_stock"] = "Minimum stock cannot be negative"
	}
	if r.Cost < 0 {
		errors["cost"] = "Cost cannot be negative"
	}
	if r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}

	return errors
}

// Item converts the request into a new record; the store assigns the id.
func (r *CreateItemRequest) Item() *Item {
	return &Item{
		Name:     r.Name,
		SKU:      r.SKU,
		Category: r.Category,
		Location: r.Location,
		Quantity: r.Quantity,
		MinStock: r.MinStock,
		Cost:     r.Cost,
		Price:    r.Price,
	}
}

// UpdateItemRequest carries a partial update. Only non-nil fields participate;
// a JSON null counts as absent, so updates never blank out stored fields.
type UpdateItemRequest struct {
	Name     *string  `json:"name"`
	SKU      *string  `json:"sku"`
	Category *string  `json:"category"`
	Location *string  `json:"location"`
	Quantity *int     `json:"quantity"`
	MinStock *int     `json:"min_stock"`
	Cost     *float64 `json:"cost"`
	Price    *float64 `json:"price"`
}

// HasFields reports whether at least one field was supplied.
func (r *UpdateItemRequest) HasFields() bool {
	return r.Name != nil || r.SKU != nil || r.Category != nil || r.Location != nil ||
		r.Quantity != nil || r.MinStock != nil || r.Cost != nil || r.Price != nil
}

func (r *UpdateItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors["name"] = "Item name cannot be empty"
	}
	if r.SKU != nil && strings.TrimSpace(*r.SKU) == "" {
		errors["sku"] = "SKU cannot be empty"
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		errors["quantity"] = "Quantity cannot be negative"
	}
	if r.MinStock != nil && *r.MinStock < 0 {
		errors["min_stock"] = "Minimum stock cannot be negative"
	}
	if r.Cost != nil && *r.Cost < 0 {
		errors["cost"] = "Cost cannot be negative"
	}
	if r.Price != nil && *r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}

	return errors
}

// AdjustStockRequest moves quantity by a delta, positive to receive stock and
// negative to pull it. The pointer distinguishes a missing delta from zero.
type AdjustStockRequest struct {
	Delta *int `json:"delta"`
}

func (r *AdjustStockRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Delta == nil {
		errors["delta"] = "Delta is required"
	}

	return errors
}

// InventoryStats aggregates the whole collection.
type InventoryStats struct {
	TotalSKUs  int `json:"total_skus"`
	TotalUnits int `json:"total_units"`
	LowStock   int `json:"low_stock"`
}
