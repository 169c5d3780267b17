package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewline/storefront/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestCreateAndFindByID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.Create(ctx, "order", map[string]any{
		"customer_name": "Sara",
		"status":        "pending",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := st.FindOne(ctx, "order", store.Filter{store.IDField: id})
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	var got map[string]any
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, "Sara", got["customer_name"])
	assert.Equal(t, "pending", got["status"])
}

func TestFindByJSONField(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.Create(ctx, "order", map[string]any{"invoice_id": "inv-1"})
	require.NoError(t, err)
	want, err := st.Create(ctx, "order", map[string]any{"invoice_id": "inv-2"})
	require.NoError(t, err)

	doc, err := st.FindOne(ctx, "order", store.Filter{"invoice_id": "inv-2"})
	require.NoError(t, err)
	assert.Equal(t, want, doc.ID)
}

func TestFindOneNotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.FindOne(context.Background(), "order", store.Filter{"invoice_id": "nope"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateOnePatchesOnlyGivenFields(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.Create(ctx, "order", map[string]any{
		"customer_name": "Sara",
		"status":        "pending",
	})
	require.NoError(t, err)

	matched, err := st.UpdateOne(ctx, "order",
		store.Filter{store.IDField: id},
		store.Patch{"status": "paid", "payment_id": "pay-9"},
	)
	require.NoError(t, err)
	assert.True(t, matched)

	doc, err := st.FindOne(ctx, "order", store.Filter{store.IDField: id})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, "paid", got["status"])
	assert.Equal(t, "pay-9", got["payment_id"])
	// Untouched field survives the patch.
	assert.Equal(t, "Sara", got["customer_name"])
}

func TestUpdateOneUnmatchedFilter(t *testing.T) {
	st := openTestStore(t)

	matched, err := st.UpdateOne(context.Background(), "order",
		store.Filter{"invoice_id": "ghost"},
		store.Patch{"status": "paid"},
	)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestCollectionsAreNamespaced(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.Create(ctx, "order", map[string]any{"status": "pending"})
	require.NoError(t, err)
	_, err = st.Create(ctx, "order_callbacks", map[string]any{"payload": "raw"})
	require.NoError(t, err)

	// The same filter applied to the other collection must not match.
	_, err = st.FindOne(ctx, "order_callbacks", store.Filter{store.IDField: id})
	assert.ErrorIs(t, err, store.ErrNotFound)

	names, err := st.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"order", "order_callbacks"}, names)
}

func TestPing(t *testing.T) {
	st := openTestStore(t)
	assert.NoError(t, st.Ping(context.Background()))
}
