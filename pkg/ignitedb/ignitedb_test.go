package ignitedb_test

import (
	"context"
	"testing"

	"github.com/iamNilotpal/ignitedb/pkg/ignitedb"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dir string, optFns ...options.OptionFunc) *ignitedb.Instance {
	t.Helper()
	ctx := context.Background()

	optFns = append([]options.OptionFunc{options.WithDataDir(dir)}, optFns...)
	db, err := ignitedb.Open(ctx, "ignitedb-test", optFns...)
	require.NoError(t, err)
	require.NoError(t, db.Load(ctx))

	t.Cleanup(func() { db.Close(ctx) })
	return db
}

func TestInstance_InsertGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	db := openStore(t, t.TempDir())

	require.NoError(t, db.Insert(ctx, "name", []byte("ignite")))

	value, ok, err := db.Get(ctx, "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("ignite"), value)

	require.NoError(t, db.Update(ctx, "name", []byte("ignitedb")))

	value, ok, err = db.Get(ctx, "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("ignitedb"), value)

	require.NoError(t, db.Delete(ctx, "name"))

	_, ok, err = db.Get(ctx, "name")
	require.NoError(t, err)
	assert.False(t, ok)

	// The tombstone remains observable through Find.
	_, value, found, err := db.Find(ctx, "name")
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, value)
}

func TestInstance_DurableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db := openStore(t, dir)
	require.NoError(t, db.Insert(ctx, "a", []byte("1")))
	require.NoError(t, db.Insert(ctx, "b", []byte("2")))
	require.NoError(t, db.Delete(ctx, "a"))
	require.NoError(t, db.Close(ctx))

	db2 := openStore(t, dir)

	_, ok, err := db2.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	value, ok, err := db2.Get(ctx, "b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("2"), value)
}

func TestInstance_SidecarLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db := openStore(t, dir, options.WithLayout(options.LayoutSidecar))
	require.NoError(t, db.Insert(ctx, "foo", []byte("bar")))
	require.NoError(t, db.Close(ctx))

	db2 := openStore(t, dir, options.WithLayout(options.LayoutSidecar))

	value, ok, err := db2.Get(ctx, "foo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("bar"), value)

	offset, fValue, found, err := db2.Find(ctx, "foo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(0), offset)
	assert.Equal(t, []byte("bar"), fValue)
}

func TestInstance_ManualFlush(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db := openStore(t, dir,
		options.WithLayout(options.LayoutSidecar),
		options.WithIndexPersistPolicy(options.PersistManual),
	)
	require.NoError(t, db.Insert(ctx, "foo", []byte("bar")))
	require.NoError(t, db.Flush(ctx))
	require.NoError(t, db.Close(ctx))

	db2 := openStore(t, dir,
		options.WithLayout(options.LayoutSidecar),
		options.WithIndexPersistPolicy(options.PersistManual),
	)

	value, ok, err := db2.Get(ctx, "foo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("bar"), value)
}

func TestInstance_ReservedKeyRejected(t *testing.T) {
	ctx := context.Background()
	db := openStore(t, t.TempDir())

	assert.Error(t, db.Insert(ctx, "+index", []byte("anything")))
	assert.Error(t, db.Delete(ctx, "+index"))

	_, ok, err := db.Get(ctx, "+index")
	require.NoError(t, err)
	assert.False(t, ok)
}
