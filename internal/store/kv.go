package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/planforge/planforge/internal/draft"
	"github.com/planforge/planforge/internal/logger"
	pfnats "github.com/planforge/planforge/internal/nats"
	"github.com/planforge/planforge/internal/plan"
)

// seqKey holds the last allocated record ID within a bucket.
const seqKey = "_seq"

// KV is the JetStream-backed store. It implements PlanService,
// CatalogService, and draft.Store.
type KV struct {
	plans  jetstream.KeyValue
	addons jetstream.KeyValue
	slas   jetstream.KeyValue
	drafts jetstream.KeyValue
}

// OpenKV ensures all buckets exist and returns the store.
func OpenKV(ctx context.Context, js jetstream.JetStream) (*KV, error) {
	plans, err := pfnats.EnsureBucket(ctx, js, pfnats.BucketPlans)
	if err != nil {
		return nil, fmt.Errorf("opening plans bucket: %w", err)
	}
	addons, err := pfnats.EnsureBucket(ctx, js, pfnats.BucketAddons)
	if err != nil {
		return nil, fmt.Errorf("opening addons bucket: %w", err)
	}
	slas, err := pfnats.EnsureBucket(ctx, js, pfnats.BucketSLAs)
	if err != nil {
		return nil, fmt.Errorf("opening slas bucket: %w", err)
	}
	drafts, err := pfnats.EnsureBucket(ctx, js, pfnats.BucketDrafts)
	if err != nil {
		return nil, fmt.Errorf("opening drafts bucket: %w", err)
	}
	return &KV{plans: plans, addons: addons, slas: slas, drafts: drafts}, nil
}

// Fetch implements PlanService.
func (s *KV) Fetch(ctx context.Context, id int) (plan.Payload, error) {
	entry, err := s.plans.Get(ctx, strconv.Itoa(id))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return plan.Payload{}, fmt.Errorf("plan %d: %w", id, ErrNotFound)
		}
		return plan.Payload{}, fmt.Errorf("fetching plan %d: %w", id, err)
	}
	return decodePlan(entry.Value(), id)
}

// decodePlan rejects empty and unparseable payloads: both are load
// failures, never a silently empty form.
func decodePlan(raw []byte, id int) (plan.Payload, error) {
	if len(raw) == 0 {
		return plan.Payload{}, fmt.Errorf("plan %d: empty record payload", id)
	}
	var p plan.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return plan.Payload{}, fmt.Errorf("decoding plan %d: %w", id, err)
	}
	if p.ID == 0 || p.Name == "" {
		return plan.Payload{}, fmt.Errorf("plan %d: incomplete record payload", id)
	}
	return p, nil
}

// Create implements PlanService.
func (s *KV) Create(ctx context.Context, p plan.Payload) (int, error) {
	id, err := nextID(ctx, s.plans)
	if err != nil {
		return 0, fmt.Errorf("allocating plan id: %w", err)
	}
	p.ID = id
	if err := putJSON(ctx, s.plans, strconv.Itoa(id), p); err != nil {
		return 0, fmt.Errorf("storing plan %d: %w", id, err)
	}
	logger.Info("Created plan %d (%s)", id, p.Name)
	return id, nil
}

// Update implements PlanService.
func (s *KV) Update(ctx context.Context, id int, p plan.Payload) error {
	if _, err := s.Fetch(ctx, id); err != nil {
		return err
	}
	p.ID = id
	if err := putJSON(ctx, s.plans, strconv.Itoa(id), p); err != nil {
		return fmt.Errorf("updating plan %d: %w", id, err)
	}
	logger.Info("Updated plan %d (%s)", id, p.Name)
	return nil
}

// List implements PlanService.
func (s *KV) List(ctx context.Context) ([]plan.Payload, error) {
	keys, err := bucketKeys(ctx, s.plans)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	var plans []plan.Payload
	for _, key := range keys {
		if key == seqKey {
			continue
		}
		entry, err := s.plans.Get(ctx, key)
		if err != nil {
			// Deleted between listing and reading; skip.
			continue
		}
		id, _ := strconv.Atoi(key)
		p, err := decodePlan(entry.Value(), id)
		if err != nil {
			logger.Warn("Skipping unreadable plan record %q: %v", key, err)
			continue
		}
		plans = append(plans, p)
	}

	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, nil
}

// ListAddons implements CatalogService.
func (s *KV) ListAddons(ctx context.Context) ([]plan.Addon, error) {
	keys, err := bucketKeys(ctx, s.addons)
	if err != nil {
		return nil, fmt.Errorf("listing addons: %w", err)
	}

	var addons []plan.Addon
	for _, key := range keys {
		if key == seqKey {
			continue
		}
		entry, err := s.addons.Get(ctx, key)
		if err != nil {
			continue
		}
		var a plan.Addon
		if err := json.Unmarshal(entry.Value(), &a); err != nil {
			logger.Warn("Skipping unreadable addon record %q: %v", key, err)
			continue
		}
		addons = append(addons, a)
	}

	sort.Slice(addons, func(i, j int) bool { return addons[i].ID < addons[j].ID })
	return addons, nil
}

// CreateAddon implements CatalogService.
func (s *KV) CreateAddon(ctx context.Context, a plan.Addon) (plan.Addon, error) {
	id, err := nextID(ctx, s.addons)
	if err != nil {
		return plan.Addon{}, fmt.Errorf("allocating addon id: %w", err)
	}
	a.ID = id
	if err := putJSON(ctx, s.addons, strconv.Itoa(id), a); err != nil {
		return plan.Addon{}, fmt.Errorf("storing addon %d: %w", id, err)
	}
	logger.Info("Created addon %d (%s)", id, a.Name)
	return a, nil
}

// CreateSLA implements CatalogService.
func (s *KV) CreateSLA(ctx context.Context, sla plan.SupportSLA) (plan.SupportSLA, error) {
	id, err := nextID(ctx, s.slas)
	if err != nil {
		return plan.SupportSLA{}, fmt.Errorf("allocating sla id: %w", err)
	}
	sla.ID = id
	if err := putJSON(ctx, s.slas, strconv.Itoa(id), sla); err != nil {
		return plan.SupportSLA{}, fmt.Errorf("storing sla %d: %w", id, err)
	}
	logger.Info("Created sla %d (%s)", id, sla.Name)
	return sla, nil
}

// ListSLAs implements CatalogService.
func (s *KV) ListSLAs(ctx context.Context) ([]plan.SupportSLA, error) {
	keys, err := bucketKeys(ctx, s.slas)
	if err != nil {
		return nil, fmt.Errorf("listing slas: %w", err)
	}

	var slas []plan.SupportSLA
	for _, key := range keys {
		if key == seqKey {
			continue
		}
		entry, err := s.slas.Get(ctx, key)
		if err != nil {
			continue
		}
		var sla plan.SupportSLA
		if err := json.Unmarshal(entry.Value(), &sla); err != nil {
			logger.Warn("Skipping unreadable sla record %q: %v", key, err)
			continue
		}
		slas = append(slas, sla)
	}

	sort.Slice(slas, func(i, j int) bool { return slas[i].ID < slas[j].ID })
	return slas, nil
}

// Get implements draft.Store.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	entry, err := s.drafts.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return "", draft.ErrNotFound
		}
		return "", err
	}
	return string(entry.Value()), nil
}

// Put implements draft.Store.
func (s *KV) Put(ctx context.Context, key, value string) error {
	_, err := s.drafts.PutString(ctx, key, value)
	return err
}

// Delete implements draft.Store.
func (s *KV) Delete(ctx context.Context, key string) error {
	err := s.drafts.Delete(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return draft.ErrNotFound
	}
	return err
}

// nextID bumps and returns the per-bucket ID sequence. The tool is
// single-user and single-process, so read-increment-write is sufficient.
func nextID(ctx context.Context, kv jetstream.KeyValue) (int, error) {
	last := 0
	if entry, err := kv.Get(ctx, seqKey); err == nil {
		last, _ = strconv.Atoi(string(entry.Value()))
	} else if !errors.Is(err, jetstream.ErrKeyNotFound) {
		return 0, err
	}

	next := last + 1
	if _, err := kv.PutString(ctx, seqKey, strconv.Itoa(next)); err != nil {
		return 0, err
	}
	return next, nil
}

func putJSON(ctx context.Context, kv jetstream.KeyValue, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = kv.Put(ctx, key, data)
	return err
}

// bucketKeys lists keys, treating an empty bucket as no keys rather than
// an error.
func bucketKeys(ctx context.Context, kv jetstream.KeyValue) ([]string, error) {
	keys, err := kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, err
	}
	return keys, nil
}
