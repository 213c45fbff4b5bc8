package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stockroom/backend/internal/models"
	"github.com/stockroom/backend/internal/services"
)

// LowStockNotifier receives items that ended a mutation below their reorder
// threshold. Optional; a nil notifier disables alerts.
type LowStockNotifier interface {
	LowStock(ctx context.Context, item *models.Item) error
}

type ItemsHandler struct {
	items    services.ItemService
	notifier LowStockNotifier
}

func NewItemsHandler(items services.ItemService, notifier LowStockNotifier) *ItemsHandler {
	return &ItemsHandler{
		items:    items,
		notifier: notifier,
	}
}

// storeReady reports whether a store was wired in at startup, writing the
// degraded-state response when not.
func (h *ItemsHandler) storeReady(w http.ResponseWriter) bool {
	if h.items == nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Database not available"))
		return false
	}
	return true
}

func (h *ItemsHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if !h.storeReady(w) {
		return
	}

	query := r.URL.Query()

	items, err := h.items.List(r.Context(), query.Get("q"), query.Get("category"))
	if err != nil {
		log.Printf("[ListItems] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list items"))
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *ItemsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if !h.storeReady(w) {
		return
	}

	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		log.Printf("[CreateItem] Validation errors: %v", errors)
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	// Enforce unique SKU within the collection.
	_, err := h.items.GetBySKU(r.Context(), req.SKU)
	if err == nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("SKU already exists"))
		return
	}
	if err != services.ErrItemNotFound {
		log.Printf("[CreateItem] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create item"))
		return
	}

	item, err := h.items.Create(r.Context(), req.Item())
	if err != nil {
		if err == services.ErrDuplicateSKU {
			// Insert lost the race the pre-check cannot close.
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("SKU already exists"))
			return
		}
		log.Printf("[CreateItem] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create item"))
		return
	}

	log.Printf("[CreateItem] Item created: %s sku=%s", item.ID.Hex(), item.SKU)
	h.notifyLowStock(r.Context(), item)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if !h.storeReady(w) {
		return
	}

	itemID := chi.URLParam(r, "itemId")
	if _, err := primitive.ObjectIDFromHex(itemID); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid item id"))
		return
	}

	var req models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if !req.HasFields() {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No fields to update"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		log.Printf("[UpdateItem] Validation errors: %v", errors)
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	// Prevent SKU collision with a different item.
	if req.SKU != nil {
		_, err := h.items.GetBySKUExcept(r.Context(), *req.SKU, itemID)
		if err == nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("SKU already in use by another item"))
			return
		}
		if err != services.ErrItemNotFound {
			log.Printf("[UpdateItem] Store error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update item"))
			return
		}
	}

	item, err := h.items.Update(r.Context(), itemID, &req)
	if err != nil {
		if err == services.ErrItemNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item not found"))
			return
		}
		if err == services.ErrDuplicateSKU {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("SKU already in use by another item"))
			return
		}
		log.Printf("[UpdateItem] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update item"))
		return
	}

	h.notifyLowStock(r.Context(), item)
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemsHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	if !h.storeReady(w) {
		return
	}

	itemID := chi.URLParam(r, "itemId")
	if _, err := primitive.ObjectIDFromHex(itemID); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid item id"))
		return
	}

	var req models.AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	item, err := h.items.GetByID(r.Context(), itemID)
	if err != nil {
		if err == services.ErrItemNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item not found"))
			return
		}
		log.Printf("[AdjustStock] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to adjust stock"))
		return
	}

	// Stock never goes negative; oversized removals clamp to zero.
	newQuantity := item.Quantity + *req.Delta
	if newQuantity < 0 {
		newQuantity = 0
	}

	updated, err := h.items.SetQuantity(r.Context(), itemID, newQuantity)
	if err != nil {
		if err == services.ErrItemNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item not found"))
			return
		}
		log.Printf("[AdjustStock] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to adjust stock"))
		return
	}

	log.Printf("[AdjustStock] sku=%s delta=%d quantity=%d", updated.SKU, *req.Delta, updated.Quantity)
	h.notifyLowStock(r.Context(), updated)
	writeJSON(w, http.StatusOK, updated)
}

func (h *ItemsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if !h.storeReady(w) {
		return
	}

	itemID := chi.URLParam(r, "itemId")
	if _, err := primitive.ObjectIDFromHex(itemID); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid item id"))
		return
	}

	if err := h.items.Delete(r.Context(), itemID); err != nil {
		if err == services.ErrItemNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item not found"))
			return
		}
		log.Printf("[DeleteItem] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete item"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemsHandler) ItemStats(w http.ResponseWriter, r *http.Request) {
	if !h.storeReady(w) {
		return
	}

	// Full scan; fine at this collection's scale.
	items, err := h.items.List(r.Context(), "", "")
	if err != nil {
		log.Printf("[ItemStats] Store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to compute stats"))
		return
	}

	stats := models.InventoryStats{TotalSKUs: len(items)}
	for _, item := range items {
		stats.TotalUnits += item.Quantity
		if item.LowOnStock() {
			stats.LowStock++
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

// notifyLowStock emits a low-stock event when the post-mutation document sits
// below its threshold. Best-effort: failures are logged, never surfaced.
func (h *ItemsHandler) notifyLowStock(ctx context.Context, item *models.Item) {
	if h.notifier == nil || !item.LowOnStock() {
		return
	}
	if err := h.notifier.LowStock(ctx, item); err != nil {
		log.Printf("[LowStockAlert] publish failed for sku=%s: %v", item.SKU, err)
	}
}
