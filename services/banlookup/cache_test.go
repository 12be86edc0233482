package banlookup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheTTLPolicy(t *testing.T) {
	loads := 0
	cache := NewCache(TTLPolicy{Interval: time.Hour}, func() (Index, error) {
		loads++
		return Index{"id": {Source: SourceAnticheat}}, nil
	})

	ctx := context.Background()
	cache.Get(ctx)
	cache.Get(ctx)
	require.Equal(t, 1, loads, "index reloaded inside the ttl window")

	stale := NewCache(TTLPolicy{Interval: 0}, func() (Index, error) {
		loads++
		return Index{}, nil
	})
	stale.Get(ctx)
	stale.Get(ctx)
	require.Equal(t, 3, loads, "zero ttl should reload every query")
}

func TestCacheMtimePolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bans.json")
	err := os.WriteFile(path, []byte("{}"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loads := 0
	cache := NewCache(MtimePolicy{Path: path}, func() (Index, error) {
		loads++
		return Index{}, nil
	})

	ctx := context.Background()
	cache.Get(ctx)
	cache.Get(ctx)
	require.Equal(t, 1, loads)

	// a touch in the future marks the cache stale
	future := time.Now().Add(time.Hour)
	err = os.Chtimes(path, future, future)
	if err != nil {
		t.Fatal(err)
	}
	cache.Get(ctx)
	require.Equal(t, 2, loads)
}

func TestCacheLoadFailureClears(t *testing.T) {
	fail := false
	cache := NewCache(TTLPolicy{Interval: 0}, func() (Index, error) {
		if fail {
			return nil, errors.New("file went away")
		}
		return Index{"steam:1": {Source: SourceAnticheat}}, nil
	})

	ctx := context.Background()
	idx := cache.Get(ctx)
	require.Contains(t, idx, "steam:1")

	fail = true
	idx = cache.Get(ctx)
	require.NotNil(t, idx)
	require.Empty(t, idx)
}
