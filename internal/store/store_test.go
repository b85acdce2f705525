package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-quiz/internal/career"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	var missing []career.RosterEntry
	require.ErrorIs(t, s.Load(ctx, "roster", &missing), ErrNotFound)

	roster := []career.RosterEntry{{PageID: 1, Title: "A"}, {QID: "Q2", Title: "B"}}
	require.NoError(t, s.Save(ctx, "roster", roster))

	var got []career.RosterEntry
	require.NoError(t, s.Load(ctx, "roster", &got))
	if diff := cmp.Diff(roster, got); diff != "" {
		t.Fatalf("roster mismatch (-want +got):\n%s", diff)
	}

	roster = roster[:1]
	require.NoError(t, s.Save(ctx, "roster", roster))
	require.NoError(t, s.Save(ctx, "filtered", roster))
	got = nil
	require.NoError(t, s.Load(ctx, "roster", &got))
	require.Len(t, got, 1)

	stages, err := s.Stages(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"filtered", "roster"}, stages)

	require.Error(t, s.Save(ctx, "../escape", roster))
	require.Error(t, s.Load(ctx, "", &got))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(filepath.Join(dir, "data"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)

	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	require.Len(t, entries, 2, "no temp files left behind")
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
	require.NoError(t, s.HealthCheck(context.Background()))
}

func TestSQLiteStoreOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quiz.db")
	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), "qualified", map[string]int{"n": 1}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()
	var got map[string]int
	require.NoError(t, s.Load(context.Background(), "qualified", &got))
	require.Equal(t, 1, got["n"])
}
