package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) {
	t.Helper()
	require.NoError(t, Open(t.TempDir()))
	t.Cleanup(func() {
		SetMaxValueSize(0)
		_ = Close()
	})
}

func TestSetGetDelete(t *testing.T) {
	openTemp(t)

	require.NoError(t, Set("a:1", []byte("one")))
	v, err := Get("a:1")
	require.NoError(t, err)
	assert.Equal(t, "one", string(v))

	require.NoError(t, Delete("a:1"))
	_, err = Get("a:1")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an absent key is fine
	require.NoError(t, Delete("a:1"))
}

func TestNotOpen(t *testing.T) {
	require.False(t, Ready())
	assert.ErrorIs(t, Set("k", nil), ErrNotOpen)
	_, err := Get("k")
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = ListKeys("")
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestListByPrefix(t *testing.T) {
	openTemp(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, Set(fmt.Sprintf("snap:m:chunk:%06d", i), []byte{byte(i)}))
	}
	require.NoError(t, Set("move:000001", []byte("x")))

	keys, err := ListKeys("snap:m:chunk:")
	require.NoError(t, err)
	require.Len(t, keys, 5)
	assert.Equal(t, "snap:m:chunk:000000", keys[0])
	assert.Equal(t, "snap:m:chunk:000004", keys[4])

	vals, err := ListValues("snap:m:chunk:")
	require.NoError(t, err)
	require.Len(t, vals, 5)
	assert.Equal(t, []byte{0}, vals[0])

	all, err := ListKeys("")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestDeletePrefix(t *testing.T) {
	openTemp(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, Set(fmt.Sprintf("snap:m:chunk:%06d", i), []byte("c")))
	}
	require.NoError(t, Set("snap:other:chunk:000000", []byte("c")))

	n, err := DeletePrefix("snap:m:chunk:")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	keys, err := ListKeys("snap:")
	require.NoError(t, err)
	assert.Equal(t, []string{"snap:other:chunk:000000"}, keys)
}

func TestMaxValueSize(t *testing.T) {
	openTemp(t)
	SetMaxValueSize(8)

	require.NoError(t, Set("small", []byte("12345678")))
	err := Set("big", []byte("123456789"))
	assert.ErrorIs(t, err, ErrValueTooLarge)
}
