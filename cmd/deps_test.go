package cmd

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumina-learn/lumina/internal/config"
	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/store"
)

type countingProvider struct{ calls atomic.Int32 }

func (p *countingProvider) Insight(context.Context, roster.InsightRequest) (*roster.Insight, error) {
	p.calls.Add(1)
	return &roster.Insight{Observation: "ok", Suggestions: []string{}}, nil
}

func TestNewRosterEnrichesOnLoadOnlyWhenAsked(t *testing.T) {
	tests := []struct {
		name      string
		opts      runtimeOpts
		wantCalls int32
	}{
		{"short-lived command", runtimeOpts{}, 0},
		{"dashboard or server", runtimeOpts{enrichOnLoad: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prov := &countingProvider{}
			s := newRoster(roster.NewMemoryPersistence(), prov, zap.NewNop(), config.Config{}, tt.opts)
			t.Cleanup(s.Close)

			require.NoError(t, s.Load(context.Background()))
			s.Wait()
			assert.Equal(t, tt.wantCalls, prov.calls.Load())
		})
	}
}

func TestRosterResetClearsStoredKeys(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "lumina.db")
	t.Setenv("LUMINA_STORE_BACKEND", "sqlite")
	t.Setenv("LUMINA_LLM_PROVIDER", "none")

	ctx := context.Background()
	db, err := store.Open(dbPath)
	require.NoError(t, err)
	kv := db.KV()
	require.NoError(t, kv.Set(ctx, roster.KeyStudents, "[]"))
	require.NoError(t, kv.Set(ctx, roster.KeyActiveID, "std-1"))
	require.NoError(t, kv.Set(ctx, roster.KeyUserRole, "parent"))
	require.NoError(t, db.Close())

	rootCmd.SetArgs([]string{"roster", "reset", "--yes",
		"--db", dbPath, "--env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, rootCmd.ExecuteContext(ctx))

	db, err = store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for _, key := range []string{roster.KeyStudents, roster.KeyActiveID, roster.KeyUserRole} {
		_, ok, err := db.KV().Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}
