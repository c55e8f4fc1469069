package memory

import (
	"context"
	"errors"
	"testing"

	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/storage"
)

func TestTouchpointStore_InsertBulkAndGet(t *testing.T) {
	store := NewTouchpointStore()
	ctx := context.Background()

	tps := []*domain.Touchpoint{
		{CustomerID: "cust1", ChannelID: "search", Timestamp: 1000, Action: domain.ActionImpression},
		{CustomerID: "cust1", ChannelID: "social", Timestamp: 2000, Action: domain.ActionClick},
		{CustomerID: "cust2", ChannelID: "search", Timestamp: 1500, Action: domain.ActionImpression},
	}

	err := store.InsertBulk(ctx, tps)
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByCustomerID(ctx, "cust1")
	if err != nil {
		t.Fatalf("GetByCustomerID failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 touchpoints for cust1, got %d", len(result))
	}
	if result[0].Timestamp > result[1].Timestamp {
		t.Error("Results not ordered by timestamp")
	}
}

func TestTouchpointStore_InsertBulkPartialDuplicate(t *testing.T) {
	store := NewTouchpointStore()
	ctx := context.Background()

	first := []*domain.Touchpoint{
		{CustomerID: "cust1", ChannelID: "search", Timestamp: 1000, Action: domain.ActionImpression},
	}
	if err := store.InsertBulk(ctx, first); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	// Bulk with duplicate
	tps := []*domain.Touchpoint{
		{CustomerID: "cust1", ChannelID: "social", Timestamp: 2000, Action: domain.ActionClick},
		{CustomerID: "cust1", ChannelID: "search", Timestamp: 1000, Action: domain.ActionImpression}, // duplicate
	}

	err := store.InsertBulk(ctx, tps)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Verify all-or-nothing
	all, _ := store.GetByCustomerID(ctx, "cust1")
	if len(all) != 1 {
		t.Errorf("Expected 1 touchpoint (no partial insert), got %d", len(all))
	}
}

func TestTouchpointStore_IntraBatchDuplicate(t *testing.T) {
	store := NewTouchpointStore()
	ctx := context.Background()

	tps := []*domain.Touchpoint{
		{CustomerID: "cust1", ChannelID: "search", Timestamp: 1000, Action: domain.ActionImpression},
		{CustomerID: "cust1", ChannelID: "search", Timestamp: 1000, Action: domain.ActionImpression},
	}

	err := store.InsertBulk(ctx, tps)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}

	all, _ := store.ListAll(ctx)
	if len(all) != 0 {
		t.Errorf("Expected empty store after failed batch, got %d", len(all))
	}
}

func TestTouchpointStore_ListAllOrdered(t *testing.T) {
	store := NewTouchpointStore()
	ctx := context.Background()

	tps := []*domain.Touchpoint{
		{CustomerID: "cust2", ChannelID: "search", Timestamp: 500, Action: domain.ActionImpression},
		{CustomerID: "cust1", ChannelID: "social", Timestamp: 2000, Action: domain.ActionClick},
		{CustomerID: "cust1", ChannelID: "search", Timestamp: 1000, Action: domain.ActionImpression},
	}

	if err := store.InsertBulk(ctx, tps); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}

	if len(all) != 3 {
		t.Fatalf("Expected 3 touchpoints, got %d", len(all))
	}
	if all[0].CustomerID != "cust1" || all[0].Timestamp != 1000 {
		t.Errorf("Unexpected first row: %s at %d", all[0].CustomerID, all[0].Timestamp)
	}
	if all[2].CustomerID != "cust2" {
		t.Errorf("Unexpected last row: %s", all[2].CustomerID)
	}
}

func TestTouchpointStore_InvalidInput(t *testing.T) {
	store := NewTouchpointStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.Touchpoint{nil})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}

	err = store.InsertBulk(ctx, []*domain.Touchpoint{{CustomerID: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty customer, got %v", err)
	}
}
