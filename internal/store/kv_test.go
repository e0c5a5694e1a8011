package store

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/planforge/planforge/internal/draft"
	pfnats "github.com/planforge/planforge/internal/nats"
	"github.com/planforge/planforge/internal/plan"
)

// newTestKV spins up an embedded NATS server in a temp directory and
// returns a KV store backed by it.
func newTestKV(t *testing.T) (*KV, jetstream.JetStream) {
	t.Helper()

	ns, err := pfnats.StartEmbeddedNATS(t.TempDir())
	if err != nil {
		t.Fatalf("failed to start NATS: %v", err)
	}
	t.Cleanup(ns.Shutdown)

	nc, err := pfnats.ConnectInProcess(ns)
	if err != nil {
		t.Fatalf("failed to connect to NATS: %v", err)
	}
	t.Cleanup(nc.Close)

	js, err := pfnats.CreateJetStream(nc)
	if err != nil {
		t.Fatalf("failed to create JetStream: %v", err)
	}

	kv, err := OpenKV(context.Background(), js)
	if err != nil {
		t.Fatalf("failed to open KV buckets: %v", err)
	}
	return kv, js
}

func testPayload(name string) plan.Payload {
	return plan.Payload{
		Name:            name,
		Code:            "test-plan",
		Active:          true,
		MonthlyPrice:    49.90,
		BillingInterval: plan.IntervalMonth,
		UserLimit:       25,
		StorageLimitGB:  100,
	}
}

func TestKVPlanOperations(t *testing.T) {
	ctx := context.Background()
	kv, _ := newTestKV(t)

	t.Run("Create assigns sequential IDs", func(t *testing.T) {
		id1, err := kv.Create(ctx, testPayload("First"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		id2, err := kv.Create(ctx, testPayload("Second"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if id2 != id1+1 {
			t.Errorf("expected sequential IDs, got %d then %d", id1, id2)
		}
	})

	t.Run("Fetch returns stored payload", func(t *testing.T) {
		id, err := kv.Create(ctx, testPayload("Premium Plan"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		p, err := kv.Fetch(ctx, id)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if p.ID != id {
			t.Errorf("expected ID %d, got %d", id, p.ID)
		}
		if p.Name != "Premium Plan" {
			t.Errorf("expected name 'Premium Plan', got '%s'", p.Name)
		}
		if p.MonthlyPrice != 49.90 {
			t.Errorf("expected monthly price 49.90, got %v", p.MonthlyPrice)
		}
	})

	t.Run("Fetch unknown ID returns ErrNotFound", func(t *testing.T) {
		_, err := kv.Fetch(ctx, 9999)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Fetch rejects incomplete payload", func(t *testing.T) {
		// Write a record missing its name directly into the bucket.
		if _, err := kv.plans.PutString(ctx, "42", `{"id":42}`); err != nil {
			t.Fatalf("PutString failed: %v", err)
		}
		_, err := kv.Fetch(ctx, 42)
		if err == nil {
			t.Fatal("expected error for incomplete payload")
		}
		if errors.Is(err, ErrNotFound) {
			t.Error("incomplete payload should not map to ErrNotFound")
		}
	})

	t.Run("Fetch rejects empty value", func(t *testing.T) {
		if _, err := kv.plans.PutString(ctx, "43", ""); err != nil {
			t.Fatalf("PutString failed: %v", err)
		}
		if _, err := kv.Fetch(ctx, 43); err == nil {
			t.Fatal("expected error for empty value")
		}
	})

	t.Run("Update overwrites existing plan", func(t *testing.T) {
		id, err := kv.Create(ctx, testPayload("Before"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		next := testPayload("After")
		if err := kv.Update(ctx, id, next); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		p, err := kv.Fetch(ctx, id)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if p.Name != "After" {
			t.Errorf("expected updated name 'After', got '%s'", p.Name)
		}
		if p.ID != id {
			t.Errorf("update must preserve ID %d, got %d", id, p.ID)
		}
	})

	t.Run("Update unknown ID returns ErrNotFound", func(t *testing.T) {
		err := kv.Update(ctx, 9999, testPayload("Ghost"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List returns plans sorted by ID", func(t *testing.T) {
		plans, err := kv.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(plans) == 0 {
			t.Fatal("expected at least one plan")
		}
		for i := 1; i < len(plans); i++ {
			if plans[i].ID <= plans[i-1].ID {
				t.Errorf("plans not sorted: ID %d follows %d", plans[i].ID, plans[i-1].ID)
			}
		}
	})
}

func TestKVCatalogOperations(t *testing.T) {
	ctx := context.Background()
	kv, _ := newTestKV(t)

	t.Run("CreateAddon assigns ID and round-trips", func(t *testing.T) {
		created, err := kv.CreateAddon(ctx, plan.Addon{
			Name:            "Extra Seats",
			MonthlyPrice:    5,
			DefaultQuantity: 1,
			MinQuantity:     1,
			MaxQuantity:     100,
			FeatureLevels:   []string{"standard", "premium"},
		})
		if err != nil {
			t.Fatalf("CreateAddon failed: %v", err)
		}
		if created.ID == 0 {
			t.Error("expected addon ID to be assigned")
		}
		addons, err := kv.ListAddons(ctx)
		if err != nil {
			t.Fatalf("ListAddons failed: %v", err)
		}
		if len(addons) != 1 || addons[0].Name != "Extra Seats" {
			t.Errorf("unexpected addon list: %+v", addons)
		}
	})

	t.Run("CreateSLA assigns ID and round-trips", func(t *testing.T) {
		created, err := kv.CreateSLA(ctx, plan.SupportSLA{
			Name:          "Gold",
			ResponseHours: 1,
			UptimePercent: 99.99,
			MonthlyPrice:  99,
		})
		if err != nil {
			t.Fatalf("CreateSLA failed: %v", err)
		}
		if created.ID == 0 {
			t.Error("expected SLA ID to be assigned")
		}
		slas, err := kv.ListSLAs(ctx)
		if err != nil {
			t.Fatalf("ListSLAs failed: %v", err)
		}
		if len(slas) != 1 || slas[0].Name != "Gold" {
			t.Errorf("unexpected SLA list: %+v", slas)
		}
	})
}

func TestKVDraftStore(t *testing.T) {
	ctx := context.Background()
	kv, _ := newTestKV(t)

	t.Run("Get missing key returns draft.ErrNotFound", func(t *testing.T) {
		_, err := kv.Get(ctx, draft.KeyDraft)
		if !errors.Is(err, draft.ErrNotFound) {
			t.Errorf("expected draft.ErrNotFound, got %v", err)
		}
	})

	t.Run("Put then Get round-trips", func(t *testing.T) {
		if err := kv.Put(ctx, draft.KeyDraft, `{"name":"X"}`); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		v, err := kv.Get(ctx, draft.KeyDraft)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if v != `{"name":"X"}` {
			t.Errorf("unexpected value: %s", v)
		}
	})

	t.Run("Delete removes key", func(t *testing.T) {
		if err := kv.Put(ctx, draft.KeySection, "pricing"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := kv.Delete(ctx, draft.KeySection); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		_, err := kv.Get(ctx, draft.KeySection)
		if !errors.Is(err, draft.ErrNotFound) {
			t.Errorf("expected draft.ErrNotFound after delete, got %v", err)
		}
	})
}

func TestSeedCatalog(t *testing.T) {
	ctx := context.Background()
	kv, _ := newTestKV(t)

	if err := SeedCatalog(ctx, kv); err != nil {
		t.Fatalf("SeedCatalog failed: %v", err)
	}

	addons, err := kv.ListAddons(ctx)
	if err != nil {
		t.Fatalf("ListAddons failed: %v", err)
	}
	slas, err := kv.ListSLAs(ctx)
	if err != nil {
		t.Fatalf("ListSLAs failed: %v", err)
	}
	if len(addons) == 0 || len(slas) == 0 {
		t.Fatalf("expected seeded catalog, got %d addons and %d SLAs", len(addons), len(slas))
	}

	// Seeding again must not duplicate entries.
	if err := SeedCatalog(ctx, kv); err != nil {
		t.Fatalf("second SeedCatalog failed: %v", err)
	}
	again, err := kv.ListAddons(ctx)
	if err != nil {
		t.Fatalf("ListAddons failed: %v", err)
	}
	if len(again) != len(addons) {
		t.Errorf("seeding twice changed addon count from %d to %d", len(addons), len(again))
	}
}
