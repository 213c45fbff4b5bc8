package services

import (
	"context"
	"errors"

	"github.com/stockroom/backend/internal/models"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrDuplicateSKU = errors.New("sku already exists")
)

// ItemService is the store behind the inventory routes. Implementations keep
// uniqueness and lookup mechanics; business rules (clamping, collision
// messages, validation) live in the handlers.
type ItemService interface {
	// List returns every item matching the filters; no ordering is
	// guaranteed beyond the store default. q is a case-insensitive
	// substring match against name or SKU; category is an exact match.
	// Empty strings disable a filter.
	List(ctx context.Context, q, category string) ([]*models.Item, error)

	// GetByID returns the item with the given hex id, or ErrItemNotFound.
	GetByID(ctx context.Context, id string) (*models.Item, error)

	// GetBySKU returns the item with the exact SKU, or ErrItemNotFound.
	GetBySKU(ctx context.Context, sku string) (*models.Item, error)

	// GetBySKUExcept behaves like GetBySKU but ignores the item with the
	// given id, for collision checks during updates.
	GetBySKUExcept(ctx context.Context, sku, id string) (*models.Item, error)

	// Create assigns an id, stores the item, and returns the stored
	// document. Returns ErrDuplicateSKU when the store enforces SKU
	// uniqueness and the insert loses a race.
	Create(ctx context.Context, item *models.Item) (*models.Item, error)

	// Update applies the non-nil fields of req to the item and returns the
	// post-update document. Returns ErrItemNotFound or ErrDuplicateSKU.
	Update(ctx context.Context, id string, req *models.UpdateItemRequest) (*models.Item, error)

	// SetQuantity overwrites the quantity field and returns the post-update
	// document. Returns ErrItemNotFound.
	SetQuantity(ctx context.Context, id string, quantity int) (*models.Item, error)

	// Delete removes the item. Returns ErrItemNotFound when nothing matched.
	Delete(ctx context.Context, id string) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Collections lists the collection names visible to the store, for the
	// diagnostics route.
	Collections(ctx context.Context) ([]string, error)

	Close(ctx context.Context) error
}
