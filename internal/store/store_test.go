package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocvuong92/ai-apps/internal/events"
	"github.com/quocvuong92/ai-apps/internal/provider"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn        string
		wantDriver string
		wantSource string
	}{
		{"ai-apps.db", DriverSQLite, "ai-apps.db"},
		{"file:test.db?cache=shared", DriverSQLite, "file:test.db?cache=shared"},
		{
			"mysql://user:pass@db:3306/apps",
			DriverMySQL,
			"user:pass@tcp(db:3306)/apps?clientFoundRows=true&charset=utf8mb4",
		},
		{
			"mysql://user:pass@db:3306/apps?parseTime=true",
			DriverMySQL,
			"user:pass@tcp(db:3306)/apps?parseTime=true&clientFoundRows=true&charset=utf8mb4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, source := parseDSN(tt.dsn)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestSQLStore_SaveAndFind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cfg := provider.New("support-bot", "https://api.example.com//", "key-1")
	cfg.Description = "Support assistant"
	cfg.IframeEmbedCode = "<iframe></iframe>"
	require.NoError(t, s.Save(ctx, cfg, provider.FlushNow))
	assert.False(t, cfg.CreatedAt.IsZero())

	got, err := s.Find(ctx, cfg.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cfg.ID(), got.ID())
	assert.Equal(t, "support-bot", got.Name)
	assert.Equal(t, "https://api.example.com", got.BaseURL())
	assert.Equal(t, "key-1", got.APIKey)
	assert.Equal(t, "Support assistant", got.Description)
	assert.Equal(t, "<iframe></iframe>", got.IframeEmbedCode)
	assert.True(t, got.IsActive())

	byName, err := s.FindOneBy(ctx, provider.FieldName, "support-bot")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, cfg.ID(), byName.ID())
}

func TestSQLStore_FindMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Find(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLStore_UnknownField(t *testing.T) {
	s := openTestStore(t)

	_, err := s.FindOneBy(context.Background(), "api_key; DROP TABLE provider_configs", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSQLStore_UpdateKeepsCreatedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cfg := provider.New("app", "https://a", "k")
	require.NoError(t, s.Save(ctx, cfg, true))
	created := cfg.CreatedAt

	cfg.APIKey = "rotated"
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Save(ctx, cfg, true))

	got, err := s.Find(ctx, cfg.ID())
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.APIKey)
	assert.Equal(t, created.UnixMilli(), got.CreatedAt.UnixMilli())

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLStore_ActiveTriState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	on := provider.New("on", "https://a", "k")
	off := provider.New("off", "https://b", "k")
	off.SetActive(provider.Bool(false))
	unset := provider.New("unset", "https://c", "k")
	unset.SetActive(nil)

	for _, c := range []*provider.Config{on, off, unset} {
		require.NoError(t, s.Save(ctx, c, false))
	}
	require.NoError(t, s.Flush(ctx))

	active, err := s.FindAllBy(ctx, provider.FieldActive, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "on", active[0].Name)

	got, err := s.Find(ctx, unset.ID())
	require.NoError(t, err)
	assert.Nil(t, got.Active)
}

func TestSQLStore_FlushBatching(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cfg := provider.New("batched", "https://a", "k")
	require.NoError(t, s.Save(ctx, cfg, false))

	got, err := s.Find(ctx, cfg.ID())
	require.NoError(t, err)
	assert.Nil(t, got, "unflushed save must not be visible")

	require.NoError(t, s.Flush(ctx))
	got, err = s.Find(ctx, cfg.ID())
	require.NoError(t, err)
	assert.NotNil(t, got)

	require.NoError(t, s.Remove(ctx, cfg, false))
	got, err = s.Find(ctx, cfg.ID())
	require.NoError(t, err)
	assert.NotNil(t, got, "unflushed remove must not be visible")

	require.NoError(t, s.Flush(ctx))
	got, err = s.Find(ctx, cfg.ID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLStore_FlushFailureRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := provider.New("dup", "https://a", "k")
	second := provider.New("dup", "https://b", "k")
	ok := provider.New("ok", "https://c", "k")

	require.NoError(t, s.Save(ctx, ok, false))
	require.NoError(t, s.Save(ctx, first, false))
	require.NoError(t, s.Save(ctx, second, false))

	assert.Error(t, s.Flush(ctx), "unique name violation expected")

	got, err := s.Find(ctx, ok.ID())
	require.NoError(t, err)
	assert.Nil(t, got, "failed flush must not write anything")
	assert.True(t, ok.CreatedAt.IsZero(), "rolled back save must not stamp the config")
	assert.True(t, second.UpdatedAt.IsZero(), "rolled back save must not stamp the config")

	other := provider.New("other", "https://d", "k")
	require.NoError(t, s.Save(ctx, other, provider.FlushNow), "a failed batch must not block later writes")

	got, err = s.Find(ctx, other.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "other", got.Name)
	assert.False(t, other.CreatedAt.IsZero())

	got, err = s.Find(ctx, ok.ID())
	require.NoError(t, err)
	assert.Nil(t, got, "discarded changes must not be replayed")
}

func TestSQLStore_FailedSaveThenRetry(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, provider.New("dup", "https://a", "k"), provider.FlushNow))

	clash := provider.New("dup", "https://b", "k")
	require.Error(t, s.Save(ctx, clash, provider.FlushNow))
	assert.True(t, clash.CreatedAt.IsZero())

	clash.Name = "renamed"
	require.NoError(t, s.Save(ctx, clash, provider.FlushNow))

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLStore_CallLogs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := events.NewCallRecord()
	older.ConfigID = "cfg-1"
	older.ConfigName = "app"
	older.Method = "GET"
	older.URL = "https://a/info"
	older.Path = "/info"
	older.StatusCode = 200
	older.Duration = 42 * time.Millisecond
	older.CreatedAt = time.Now().Add(-time.Minute).UTC()

	newer := older
	newer.ID = "second"
	newer.StatusCode = 400
	newer.ErrorCode = "INVALID_REQUEST"
	newer.Error = "Bad Request"
	newer.CreatedAt = time.Now().UTC()

	require.NoError(t, s.InsertCallLog(ctx, older))
	require.NoError(t, s.InsertCallLog(ctx, newer))

	logs, err := s.RecentCallLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "second", logs[0].ID)
	assert.Equal(t, "INVALID_REQUEST", logs[0].ErrorCode)
	assert.Equal(t, "Bad Request", logs[0].Error)
	assert.Equal(t, 42*time.Millisecond, logs[1].Duration)
}

func TestSQLStore_WorksWithResolver(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := provider.NewResolver(s)

	active := provider.New("active", "https://a", "k")
	inactive := provider.New("inactive", "https://b", "k")
	inactive.SetActive(provider.Bool(false))
	require.NoError(t, r.Save(ctx, active, true))
	require.NoError(t, r.Save(ctx, inactive, true))

	targets, err := r.ResolveSyncTargets(ctx, "")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, active.ID(), targets[0].ID())

	targets, err = r.ResolveSyncTargets(ctx, inactive.ID())
	require.NoError(t, err)
	assert.Empty(t, targets)
}
