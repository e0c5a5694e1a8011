// Package store persists plan records and the add-on/SLA catalogs, and
// backs the draft key-value store. Two implementations exist: a JetStream
// KV store over the embedded NATS server, and an in-memory store for tests.
package store

import (
	"context"
	"errors"

	"github.com/planforge/planforge/internal/plan"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: record not found")

// PlanService is the record-service collaborator of the wizard.
type PlanService interface {
	// Fetch loads a plan by ID. A missing, empty, or unparseable record is
	// an error; an empty payload must never render as an empty form.
	Fetch(ctx context.Context, id int) (plan.Payload, error)
	// Create stores a new plan and returns its assigned ID.
	Create(ctx context.Context, p plan.Payload) (int, error)
	// Update overwrites an existing plan.
	Update(ctx context.Context, id int, p plan.Payload) error
	// List returns all stored plans ordered by ID.
	List(ctx context.Context) ([]plan.Payload, error)
}

// CatalogService is the catalog collaborator for selectable child resources.
type CatalogService interface {
	ListAddons(ctx context.Context) ([]plan.Addon, error)
	CreateAddon(ctx context.Context, a plan.Addon) (plan.Addon, error)
	ListSLAs(ctx context.Context) ([]plan.SupportSLA, error)
	CreateSLA(ctx context.Context, s plan.SupportSLA) (plan.SupportSLA, error)
}
