package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quocvuong92/ai-apps/internal/logging"
	"github.com/quocvuong92/ai-apps/internal/provider"
)

// ErrUnknownField is returned when a lookup names a column that is not queryable
var ErrUnknownField = errors.New("unknown lookup field")

var queryableFields = map[string]string{
	provider.FieldID:      "id",
	provider.FieldName:    "name",
	provider.FieldBaseURL: "base_url",
	provider.FieldActive:  "active",
}

const selectConfig = `SELECT id, name, description, api_key, base_url, iframe_embed_code, active, created_at, updated_at FROM provider_configs`

type opKind int

const (
	opSave opKind = iota
	opRemove
)

type pendingOp struct {
	kind opKind
	cfg  *provider.Config
}

// Find returns the config with id, or nil when absent
func (s *SQLStore) Find(ctx context.Context, id string) (*provider.Config, error) {
	return s.FindOneBy(ctx, provider.FieldID, id)
}

// FindOneBy returns the first config whose field equals value
func (s *SQLStore) FindOneBy(ctx context.Context, field string, value any) (*provider.Config, error) {
	column, ok := queryableFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	row := s.db.QueryRowContext(ctx, selectConfig+` WHERE `+column+` = ? LIMIT 1`, value)
	cfg, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config by %s: %w", field, err)
	}
	return cfg, nil
}

// FindAllBy returns every config whose field equals value, ordered by name
func (s *SQLStore) FindAllBy(ctx context.Context, field string, value any) ([]*provider.Config, error) {
	column, ok := queryableFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return s.query(ctx, selectConfig+` WHERE `+column+` = ? ORDER BY name`, value)
}

// FindAll returns every config ordered by name
func (s *SQLStore) FindAll(ctx context.Context) ([]*provider.Config, error) {
	return s.query(ctx, selectConfig+` ORDER BY name`)
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]*provider.Config, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query configs: %w", err)
	}
	defer rows.Close()

	configs := []*provider.Config{}
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan config: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConfig(row scanner) (*provider.Config, error) {
	var (
		id, name, apiKey, baseURL string
		description, iframe       sql.NullString
		active                    sql.NullBool
		createdAt, updatedAt      int64
	)
	if err := row.Scan(&id, &name, &description, &apiKey, &baseURL, &iframe, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	cfg := provider.NewWithID(id)
	cfg.Name = name
	cfg.Description = description.String
	cfg.APIKey = apiKey
	cfg.SetBaseURL(baseURL)
	cfg.IframeEmbedCode = iframe.String
	if active.Valid {
		cfg.SetActive(provider.Bool(active.Bool))
	} else {
		cfg.SetActive(nil)
	}
	cfg.CreatedAt = time.UnixMilli(createdAt).UTC()
	cfg.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return cfg, nil
}

// Save stages cfg for insert or update; flush commits everything staged
func (s *SQLStore) Save(ctx context.Context, cfg *provider.Config, flush bool) error {
	return s.stage(ctx, pendingOp{kind: opSave, cfg: cfg}, flush)
}

// Remove stages cfg for deletion; flush commits everything staged
func (s *SQLStore) Remove(ctx context.Context, cfg *provider.Config, flush bool) error {
	return s.stage(ctx, pendingOp{kind: opRemove, cfg: cfg}, flush)
}

func (s *SQLStore) stage(ctx context.Context, op pendingOp, flush bool) error {
	s.mu.Lock()
	s.pending = append(s.pending, op)
	s.mu.Unlock()

	if !flush {
		return nil
	}
	return s.Flush(ctx)
}

// Flush commits all staged changes in one transaction. The batch is consumed
// either way: on failure nothing is written and the staged changes are
// discarded, so later writes are not blocked by the one that failed.
func (s *SQLStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	batch := s.pending
	s.pending = nil

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	now := time.Now().UTC()
	stamps := make([]timestamps, len(batch))
	for i, op := range batch {
		switch op.kind {
		case opSave:
			stamps[i], err = upsertConfig(ctx, tx, op.cfg, now)
		case opRemove:
			_, err = tx.ExecContext(ctx, `DELETE FROM provider_configs WHERE id = ?`, op.cfg.ID())
		}
		if err != nil {
			_ = tx.Rollback()
			s.logger.Warn("discarded staged config changes", logging.Fields{"pending": len(batch)})
			return fmt.Errorf("failed to write config %s: %w", op.cfg.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	// timestamps reach the caller's configs only once they are stored
	for i, op := range batch {
		if op.kind == opSave {
			op.cfg.CreatedAt = stamps[i].created
			op.cfg.UpdatedAt = stamps[i].updated
		}
	}
	return nil
}

type timestamps struct {
	created, updated time.Time
}

func upsertConfig(ctx context.Context, tx *sql.Tx, cfg *provider.Config, now time.Time) (timestamps, error) {
	ts := timestamps{created: cfg.CreatedAt, updated: now}
	if ts.created.IsZero() {
		ts.created = now
	}

	var active any
	if cfg.Active != nil {
		active = *cfg.Active
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE provider_configs SET name = ?, description = ?, api_key = ?, base_url = ?, iframe_embed_code = ?, active = ?, updated_at = ? WHERE id = ?`,
		cfg.Name, nullString(cfg.Description), cfg.APIKey, cfg.BaseURL(), nullString(cfg.IframeEmbedCode), active, ts.updated.UnixMilli(), cfg.ID(),
	)
	if err != nil {
		return ts, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ts, err
	}
	if n > 0 {
		// the stored created_at is authoritative for an existing row
		var created int64
		if err := tx.QueryRowContext(ctx, `SELECT created_at FROM provider_configs WHERE id = ?`, cfg.ID()).Scan(&created); err != nil {
			return ts, err
		}
		ts.created = time.UnixMilli(created).UTC()
		return ts, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO provider_configs (id, name, description, api_key, base_url, iframe_embed_code, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.ID(), cfg.Name, nullString(cfg.Description), cfg.APIKey, cfg.BaseURL(), nullString(cfg.IframeEmbedCode), active, ts.created.UnixMilli(), ts.updated.UnixMilli(),
	)
	return ts, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
