package provider

import (
	"context"
	"errors"
	"testing"
)

// memoryStore is a minimal Store used to exercise the resolver
type memoryStore struct {
	configs map[string]*Config
	saved   []bool
	removed []bool
	err     error
}

func newMemoryStore(configs ...*Config) *memoryStore {
	s := &memoryStore{configs: make(map[string]*Config)}
	for _, c := range configs {
		s.configs[c.ID()] = c
	}
	return s
}

func (s *memoryStore) Find(_ context.Context, id string) (*Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.configs[id], nil
}

func (s *memoryStore) FindOneBy(_ context.Context, field string, value any) (*Config, error) {
	for _, c := range s.configs {
		if field == FieldName && c.Name == value {
			return c, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) FindAllBy(_ context.Context, field string, value any) ([]*Config, error) {
	var out []*Config
	for _, c := range s.configs {
		if field == FieldActive && c.Active != nil && *c.Active == value {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memoryStore) FindAll(_ context.Context) ([]*Config, error) {
	var out []*Config
	for _, c := range s.configs {
		out = append(out, c)
	}
	return out, nil
}

func (s *memoryStore) Save(_ context.Context, cfg *Config, flush bool) error {
	s.configs[cfg.ID()] = cfg
	s.saved = append(s.saved, flush)
	return nil
}

func (s *memoryStore) Remove(_ context.Context, cfg *Config, flush bool) error {
	delete(s.configs, cfg.ID())
	s.removed = append(s.removed, flush)
	return nil
}

func (s *memoryStore) Flush(context.Context) error { return nil }

func withActive(c *Config, active *bool) *Config {
	c.SetActive(active)
	return c
}

func TestResolver_ResolveSyncTargets(t *testing.T) {
	active := New("active", "https://a", "k")
	inactive := withActive(New("inactive", "https://b", "k"), Bool(false))
	unset := withActive(New("unset", "https://c", "k"), nil)

	r := NewResolver(newMemoryStore(active, inactive, unset))
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		wantIDs []string
	}{
		{"active config", active.ID(), []string{active.ID()}},
		{"inactive config", inactive.ID(), nil},
		{"unset active flag", unset.ID(), nil},
		{"missing config", "does-not-exist", nil},
		{"no id returns all active", "", []string{active.ID()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveSyncTargets(ctx, tt.id)
			if err != nil {
				t.Fatalf("ResolveSyncTargets() error = %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("ResolveSyncTargets(%q) returned %d configs, want %d", tt.id, len(got), len(tt.wantIDs))
			}
			for i, c := range got {
				if c.ID() != tt.wantIDs[i] {
					t.Errorf("target[%d] = %q, want %q", i, c.ID(), tt.wantIDs[i])
				}
			}
		})
	}
}

func TestResolver_ResolveSyncTargetsError(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("db down")
	r := NewResolver(store)

	if _, err := r.ResolveSyncTargets(context.Background(), "x"); !errors.Is(err, store.err) {
		t.Errorf("ResolveSyncTargets() error = %v, want wrapped %v", err, store.err)
	}
}

func TestResolver_Lookup(t *testing.T) {
	cfg := New("support-bot", "https://a", "k")
	r := NewResolver(newMemoryStore(cfg))
	ctx := context.Background()

	for _, ref := range []string{cfg.ID(), "support-bot"} {
		got, err := r.Lookup(ctx, ref)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", ref, err)
		}
		if got != cfg {
			t.Errorf("Lookup(%q) = %v, want %v", ref, got, cfg)
		}
	}

	got, err := r.Lookup(ctx, "unknown")
	if err != nil || got != nil {
		t.Errorf("Lookup(unknown) = %v, %v; want nil, nil", got, err)
	}
}

func TestResolver_SaveRemoveDelegateFlush(t *testing.T) {
	store := newMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()
	cfg := New("a", "https://a", "k")

	if err := r.Save(ctx, cfg, FlushNow); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := r.Remove(ctx, cfg, false); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if len(store.saved) != 1 || !store.saved[0] {
		t.Errorf("Save flush flags = %v, want [true]", store.saved)
	}
	if len(store.removed) != 1 || store.removed[0] {
		t.Errorf("Remove flush flags = %v, want [false]", store.removed)
	}
}
