package provider

import (
	"context"
	"fmt"
)

// Field names accepted by Store.FindOneBy and Store.FindAllBy
const (
	FieldID      = "id"
	FieldName    = "name"
	FieldBaseURL = "base_url"
	FieldActive  = "active"
)

// FlushNow is the default flush argument: commit the change immediately
const FlushNow = true

// Store is the keyed persistence of configs.
// Lookups return (nil, nil) when nothing matches.
type Store interface {
	Find(ctx context.Context, id string) (*Config, error)
	FindOneBy(ctx context.Context, field string, value any) (*Config, error)
	FindAllBy(ctx context.Context, field string, value any) ([]*Config, error)
	FindAll(ctx context.Context) ([]*Config, error)

	// Save and Remove stage the change; flush commits everything staged so far.
	Save(ctx context.Context, cfg *Config, flush bool) error
	Remove(ctx context.Context, cfg *Config, flush bool) error
	Flush(ctx context.Context) error
}

// Resolver looks up configs and decides which ones are eligible for sync
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over store
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// FindByID returns the config with id, or nil
func (r *Resolver) FindByID(ctx context.Context, id string) (*Config, error) {
	return r.store.Find(ctx, id)
}

// FindByName returns the config with the exact name, or nil
func (r *Resolver) FindByName(ctx context.Context, name string) (*Config, error) {
	return r.store.FindOneBy(ctx, FieldName, name)
}

// FindActive returns every config whose active flag is true
func (r *Resolver) FindActive(ctx context.Context) ([]*Config, error) {
	return r.store.FindAllBy(ctx, FieldActive, true)
}

// FindAll returns every config regardless of state
func (r *Resolver) FindAll(ctx context.Context) ([]*Config, error) {
	return r.store.FindAll(ctx)
}

// Lookup resolves ref as an id first and then as a name
func (r *Resolver) Lookup(ctx context.Context, ref string) (*Config, error) {
	cfg, err := r.FindByID(ctx, ref)
	if err != nil || cfg != nil {
		return cfg, err
	}
	return r.FindByName(ctx, ref)
}

// ResolveSyncTargets returns the configs a sync run should cover.
// With an id, the result holds that config only when it exists and is
// explicitly active; unset or false flags yield an empty list. An empty id
// means "all active configs".
func (r *Resolver) ResolveSyncTargets(ctx context.Context, id string) ([]*Config, error) {
	if id == "" {
		return r.FindActive(ctx)
	}

	cfg, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", id, err)
	}
	if cfg == nil || !cfg.IsActive() {
		return []*Config{}, nil
	}
	return []*Config{cfg}, nil
}

// Save persists cfg. Callers validate first.
func (r *Resolver) Save(ctx context.Context, cfg *Config, flush bool) error {
	return r.store.Save(ctx, cfg, flush)
}

// Remove deletes cfg
func (r *Resolver) Remove(ctx context.Context, cfg *Config, flush bool) error {
	return r.store.Remove(ctx, cfg, flush)
}

// Flush commits changes staged with flush=false
func (r *Resolver) Flush(ctx context.Context) error {
	return r.store.Flush(ctx)
}
