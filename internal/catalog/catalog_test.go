package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordAndListRegistrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	cat, err := Open(path)
	require.NoError(t, err)
	defer cat.Close()

	ctx := context.Background()
	require.NoError(t, cat.RecordRegistration(ctx, "app.Point", "Tuple"))
	require.NoError(t, cat.RecordRegistration(ctx, "app.Tags", "List"))

	rows, err := cat.ListRegistrations(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "app.Tags", rows[0].TypeName, "most recent first")
}

func TestRecordFailureCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	cat, err := Open(path)
	require.NoError(t, err)
	defer cat.Close()

	ctx := context.Background()
	require.NoError(t, cat.RecordFailure(ctx, "app.Weird", "push_back"))
	require.NoError(t, cat.RecordFailure(ctx, "app.Weird", "insert"))

	n, err := cat.FailureCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
