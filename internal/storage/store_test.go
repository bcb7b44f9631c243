package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackmyprogress/internal/cache"
	"trackmyprogress/internal/config"
)

func drivers(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	b, err := OpenBolt(filepath.Join(dir, "bolt", "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	mr := miniredis.RunT(t)
	r := cache.New(mr.Addr(), "", 0, "trackmyprogress:")
	t.Cleanup(func() { _ = r.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(dir, "nested", "store.json")),
		"bolt":   b,
		"redis":  r,
	}
}

func TestStores_Contract(t *testing.T) {
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Read(ctx, "user")
			require.NoError(t, err)
			assert.False(t, ok, "absent key reads as missing")

			require.NoError(t, s.Write(ctx, "user", `{"id":"1"}`))
			require.NoError(t, s.Write(ctx, "users", `{}`))

			v, ok, err := s.Read(ctx, "user")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"id":"1"}`, v)

			require.NoError(t, s.Write(ctx, "user", `{"id":"2"}`))
			v, _, err = s.Read(ctx, "user")
			require.NoError(t, err)
			assert.Equal(t, `{"id":"2"}`, v, "write overwrites")

			require.NoError(t, s.Remove(ctx, "user"))
			require.NoError(t, s.Remove(ctx, "user"), "remove is idempotent")

			_, ok, err = s.Read(ctx, "user")
			require.NoError(t, err)
			assert.False(t, ok)

			v, ok, err = s.Read(ctx, "users")
			require.NoError(t, err)
			assert.True(t, ok, "other keys survive removal")
			assert.Equal(t, `{}`, v)
		})
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	require.NoError(t, NewFile(path).Write(ctx, "user", "alice"))

	v, ok, err := NewFile(path).Read(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFile(path).Read(context.Background(), "user")
	assert.Error(t, err)
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	b, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Write(ctx, "users", `{"a@x.com":{}}`))
	require.NoError(t, b.Close())

	b, err = OpenBolt(path)
	require.NoError(t, err)
	defer b.Close()

	v, ok, err := b.Read(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a@x.com":{}}`, v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		driver  string
		want    any
		wantErr bool
	}{
		{driver: "memory", want: &Memory{}},
		{driver: "file", want: &File{}},
		{driver: "bolt", want: &Bolt{}},
		{driver: "tape", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.StoreDriver = tt.driver
			cfg.StorePath = filepath.Join(dir, tt.driver, "store")

			s, closeFn, err := Open(ctx, cfg)
			require.NotNil(t, closeFn)
			defer closeFn()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.StoreDriver = "redis"
	cfg.RedisAddr = mr.Addr()
	cfg.RedisPrefix = "tmp:"

	s, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &cache.Client{}, s)

	require.NoError(t, s.Write(context.Background(), "user", "alice"))
	assert.True(t, mr.Exists("tmp:user"))

	mr.Close()
	_, closeFn, err = Open(context.Background(), cfg)
	assert.Error(t, err, "unreachable server fails at open")
	require.NotNil(t, closeFn)
}
