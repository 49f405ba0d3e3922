package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LukasGLars/construction-buddy/internal/ledger"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := ledger.NewStore(time.Minute)

	id := store.Create()
	require.NotEmpty(t, id)

	led, err := store.Get(id)
	require.NoError(t, err)
	require.Zero(t, led.Len())

	again, err := store.Get(id)
	require.NoError(t, err)
	require.Same(t, led, again)

	_, err = store.Get("no-such-session")
	require.ErrorIs(t, err, ledger.ErrLedgerNotFound)
}

func TestStoreExpiry(t *testing.T) {
	store := ledger.NewStore(60 * time.Millisecond)
	id := store.Create()

	time.Sleep(100 * time.Millisecond)
	_, err := store.Get(id)
	require.ErrorIs(t, err, ledger.ErrLedgerNotFound)
}

func TestStoreSlidingExpiry(t *testing.T) {
	store := ledger.NewStore(120 * time.Millisecond)
	id := store.Create()

	// each access pushes the deadline forward
	for i := 0; i < 3; i++ {
		time.Sleep(70 * time.Millisecond)
		_, err := store.Get(id)
		require.NoError(t, err)
	}
}

func TestStoreDelete(t *testing.T) {
	store := ledger.NewStore(time.Minute)
	id := store.Create()

	store.Delete(id)
	_, err := store.Get(id)
	require.ErrorIs(t, err, ledger.ErrLedgerNotFound)

	store.Delete(id)
}
