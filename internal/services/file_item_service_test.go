package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stockroom/backend/internal/models"
)

func newFileService(t *testing.T) (*FileItemService, string) {
	t.Helper()

	dir := t.TempDir()
	svc, err := NewFileItemService(dir)
	if err != nil {
		t.Fatalf("failed to open file store: %v", err)
	}
	return svc, dir
}

func mustCreate(t *testing.T, svc *FileItemService, item models.Item) *models.Item {
	t.Helper()

	stored, err := svc.Create(context.Background(), &item)
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return stored
}

func TestFileItemServiceCreateAssignsID(t *testing.T) {
	svc, _ := newFileService(t)

	stored := mustCreate(t, svc, models.Item{Name: "Widget", SKU: "WDG-001", Quantity: 4})
	if stored.ID.IsZero() {
		t.Fatal("expected an assigned id")
	}

	got, err := svc.GetByID(context.Background(), stored.ID.Hex())
	if err != nil {
		t.Fatalf("failed to fetch created item: %v", err)
	}
	if *got != *stored {
		t.Errorf("fetched item differs: %+v vs %+v", got, stored)
	}
}

func TestFileItemServiceDuplicateSKU(t *testing.T) {
	svc, _ := newFileService(t)
	mustCreate(t, svc, models.Item{Name: "Widget", SKU: "WDG-001"})

	_, err := svc.Create(context.Background(), &models.Item{Name: "Clone", SKU: "WDG-001"})
	if err != ErrDuplicateSKU {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}
}

func TestFileItemServicePersistsAcrossReopen(t *testing.T) {
	svc, dir := newFileService(t)
	stored := mustCreate(t, svc, models.Item{Name: "Widget", SKU: "WDG-001", Quantity: 7, MinStock: 2, Cost: 1.5, Price: 3})

	reopened, err := NewFileItemService(dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}

	got, err := reopened.GetByID(context.Background(), stored.ID.Hex())
	if err != nil {
		t.Fatalf("item lost across reopen: %v", err)
	}
	if *got != *stored {
		t.Errorf("item changed across reopen: %+v vs %+v", got, stored)
	}
}

func TestFileItemServiceList(t *testing.T) {
	svc, _ := newFileService(t)
	mustCreate(t, svc, models.Item{Name: "Torque Widget", SKU: "WDG-001", Category: "Hardware"})
	mustCreate(t, svc, models.Item{Name: "Label Roll", SKU: "LBL-500", Category: "Supplies"})

	cases := []struct {
		name     string
		q        string
		category string
		want     int
	}{
		{"all", "", "", 2},
		{"q matches name case-insensitively", "torque", "", 1},
		{"q matches sku case-insensitively", "lbl", "", 1},
		{"category exact", "", "Hardware", 1},
		{"category partial does not match", "", "Hard", 0},
		{"filters combine with AND", "widget", "Supplies", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := svc.List(context.Background(), tc.q, tc.category)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(items) != tc.want {
				t.Errorf("expected %d item(s), got %d", tc.want, len(items))
			}
		})
	}
}

func TestFileItemServiceUpdate(t *testing.T) {
	svc, _ := newFileService(t)
	stored := mustCreate(t, svc, models.Item{Name: "Widget", SKU: "WDG-001", Quantity: 9, Location: "Aisle 3"})

	name := "Torque Widget"
	qty := 12
	updated, err := svc.Update(context.Background(), stored.ID.Hex(), &models.UpdateItemRequest{
		Name:     &name,
		Quantity: &qty,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Name != name || updated.Quantity != qty {
		t.Errorf("supplied fields not applied: %+v", updated)
	}
	if updated.SKU != stored.SKU || updated.Location != stored.Location {
		t.Errorf("unsupplied fields changed: %+v", updated)
	}

	t.Run("sku collision", func(t *testing.T) {
		other := mustCreate(t, svc, models.Item{Name: "Sprocket", SKU: "SPK-010"})

		sku := "WDG-001"
		if _, err := svc.Update(context.Background(), other.ID.Hex(), &models.UpdateItemRequest{SKU: &sku}); err != ErrDuplicateSKU {
			t.Errorf("expected ErrDuplicateSKU, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), &models.UpdateItemRequest{Name: &name}); err != ErrItemNotFound {
			t.Errorf("expected ErrItemNotFound, got %v", err)
		}
	})
}

func TestFileItemServiceGetBySKUExcept(t *testing.T) {
	svc, _ := newFileService(t)
	stored := mustCreate(t, svc, models.Item{Name: "Widget", SKU: "WDG-001"})

	// Excluding the only holder of the SKU finds nothing.
	if _, err := svc.GetBySKUExcept(context.Background(), "WDG-001", stored.ID.Hex()); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	// Excluding some other id finds it.
	got, err := svc.GetBySKUExcept(context.Background(), "WDG-001", primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("expected a match, got %v", err)
	}
	if got.ID != stored.ID {
		t.Errorf("expected %s, got %s", stored.ID.Hex(), got.ID.Hex())
	}
}

func TestFileItemServiceSetQuantity(t *testing.T) {
	svc, _ := newFileService(t)
	stored := mustCreate(t, svc, models.Item{Name: "Widget", SKU: "WDG-001", Quantity: 9})

	updated, err := svc.SetQuantity(context.Background(), stored.ID.Hex(), 0)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if updated.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", updated.Quantity)
	}
}

func TestFileItemServiceDelete(t *testing.T) {
	svc, _ := newFileService(t)
	stored := mustCreate(t, svc, models.Item{Name: "Widget", SKU: "WDG-001"})

	if err := svc.Delete(context.Background(), stored.ID.Hex()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), stored.ID.Hex()); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), stored.ID.Hex()); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound on second delete, got %v", err)
	}
}

func TestFileItemServiceReturnsCopies(t *testing.T) {
	svc, _ := newFileService(t)
	stored := mustCreate(t, svc, models.Item{Name: "Widget", SKU: "WDG-001"})

	stored.Name = "Mutated by caller"

	got, err := svc.GetByID(context.Background(), stored.ID.Hex())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got.Name != "Widget" {
		t.Errorf("caller mutation leaked into the store: %q", got.Name)
	}
}
