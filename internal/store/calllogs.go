package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quocvuong92/ai-apps/internal/events"
)

// InsertCallLog writes one call record. It is the async recorder's sink.
func (s *SQLStore) InsertCallLog(ctx context.Context, rec events.CallRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_call_logs (id, config_id, config_name, method, url, path, status_code, error_code, error, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ConfigID, rec.ConfigName, rec.Method, rec.URL, rec.Path, rec.StatusCode,
		nullString(rec.ErrorCode), nullString(rec.Error), rec.Duration.Milliseconds(), rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert call log: %w", err)
	}
	return nil
}

// RecentCallLogs returns up to limit records, newest first
func (s *SQLStore) RecentCallLogs(ctx context.Context, limit int) ([]events.CallRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, config_id, config_name, method, url, path, status_code, error_code, error, duration_ms, created_at FROM api_call_logs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query call logs: %w", err)
	}
	defer rows.Close()

	var out []events.CallRecord
	for rows.Next() {
		var (
			rec                  events.CallRecord
			errorCode, errorText sql.NullString
			durationMs, created  int64
		)
		if err := rows.Scan(&rec.ID, &rec.ConfigID, &rec.ConfigName, &rec.Method, &rec.URL, &rec.Path,
			&rec.StatusCode, &errorCode, &errorText, &durationMs, &created); err != nil {
			return nil, fmt.Errorf("failed to scan call log: %w", err)
		}
		rec.ErrorCode = errorCode.String
		rec.Error = errorText.String
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}
