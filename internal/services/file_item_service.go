package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stockroom/backend/internal/models"
	"github.com/stockroom/backend/internal/storage"
)

// FileItemService keeps the collection in memory and mirrors every mutation
// to a JSON file. Meant for development and tests; ids are ObjectIDs so the
// two drivers agree on what a well-formed id looks like.
type FileItemService struct {
	mu    sync.RWMutex
	store *storage.JSONStore
	items map[string]*models.Item // hex id -> item
}

func NewFileItemService(dataDir string) (*FileItemService, error) {
	store, err := storage.NewJSONStore(dataDir, "items.json")
	if err != nil {
		return nil, err
	}

	var loaded []*models.Item
	if err := store.Load(&loaded); err != nil {
		return nil, err
	}

	items := make(map[string]*models.Item, len(loaded))
	for _, item := range loaded {
		items[item.ID.Hex()] = item
	}

	log.Printf("File store ready: dir=%s items=%d", dataDir, len(items))
	return &FileItemService{
		store: store,
		items: items,
	}, nil
}

func (s *FileItemService) Close(ctx context.Context) error {
	return nil
}

func (s *FileItemService) List(ctx context.Context, q, category string) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q = strings.ToLower(q)

	results := make([]*models.Item, 0)
	for _, item := range s.items {
		if q != "" &&
			!strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.SKU), q) {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		itemCopy := *item
		results = append(results, &itemCopy)
	}

	// ObjectIDs lead with a timestamp, so hex order is creation order.
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID.Hex() < results[j].ID.Hex()
	})
	return results, nil
}

func (s *FileItemService) GetByID(ctx context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}

	itemCopy := *item
	return &itemCopy, nil
}

func (s *FileItemService) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.SKU == sku {
			itemCopy := *item
			return &itemCopy, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *FileItemService) GetBySKUExcept(ctx context.Context, sku, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.SKU == sku && item.ID.Hex() != id {
			itemCopy := *item
			return &itemCopy, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *FileItemService) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.SKU == item.SKU {
			return nil, ErrDuplicateSKU
		}
	}

	stored := *item
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	s.items[stored.ID.Hex()] = &stored

	if err := s.persist(); err != nil {
		return nil, err
	}

	storedCopy := stored
	return &storedCopy, nil
}

func (s *FileItemService) Update(ctx context.Context, id string, req *models.UpdateItemRequest) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}

	if req.SKU != nil {
		for _, other := range s.items {
			if other.SKU == *req.SKU && other.ID.Hex() != id {
				return nil, ErrDuplicateSKU
			}
		}
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.MinStock != nil {
		item.MinStock = *req.MinStock
	}
	if req.Cost != nil {
		item.Cost = *req.Cost
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	if err := s.persist(); err != nil {
		return nil, err
	}

	itemCopy := *item
	return &itemCopy, nil
}

func (s *FileItemService) SetQuantity(ctx context.Context, id string, quantity int) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}

	item.Quantity = quantity

	if err := s.persist(); err != nil {
		return nil, err
	}

	itemCopy := *item
	return &itemCopy, nil
}

func (s *FileItemService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ErrItemNotFound
	}

	delete(s.items, id)
	return s.persist()
}

func (s *FileItemService) Ping(ctx context.Context) error {
	return nil
}

func (s *FileItemService) Collections(ctx context.Context) ([]string, error) {
	return []string{"item"}, nil
}

// persist writes the whole collection out. Callers must hold the write lock.
func (s *FileItemService) persist() error {
	items := make([]*models.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID.Hex() < items[j].ID.Hex()
	})
	return s.store.Save(items)
}
