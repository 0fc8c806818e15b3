package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	ctx := context.Background()

	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	rs, err := NewRedis(ctx, mr.Addr(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })

	sq, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "nested", "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"redis":  rs,
		"sqlite": sq,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, HistoryKey, `[]`))
			v, ok, err := s.Get(ctx, HistoryKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, v)

			require.NoError(t, s.Set(ctx, HistoryKey, `[1]`))
			v, _, err = s.Get(ctx, HistoryKey)
			require.NoError(t, err)
			assert.Equal(t, `[1]`, v)
		})
	}
}

func TestRedisNamespace(t *testing.T) {
	mr := miniredis.RunT(t)
	rs, err := NewRedis(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	defer rs.Close()

	require.NoError(t, rs.Set(context.Background(), DrawingsKey, "x"))
	got, err := mr.Get("localboard:" + DrawingsKey)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), addr, "")
	assert.Error(t, err)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")

	s, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, DocumentKey, `{"notes":[]}`))
	require.NoError(t, s.Close())

	s, err = NewSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, DocumentKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"notes":[]}`, v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(ctx, Options{Backend: "floppy"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(ctx, Options{Backend: "sqlite"})
	assert.Error(t, err)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	var out []int
	ok, err := LoadJSON(ctx, s, "nums", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveJSON(ctx, s, "nums", []int{1, 2, 3}))
	ok, err = LoadJSON(ctx, s, "nums", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, out)

	require.NoError(t, s.Set(ctx, "nums", "{not json"))
	_, err = LoadJSON(ctx, s, "nums", &out)
	assert.Error(t, err)
}
