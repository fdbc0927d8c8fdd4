package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })
	return map[string]Store{
		"memory": NewMemory(time.Minute, time.Minute),
		"redis":  rc,
	}
}

func TestStore_GetOrLoad(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var calls int32
			load := func(context.Context) ([]byte, error) {
				atomic.AddInt32(&calls, 1)
				return []byte("v1"), nil
			}

			b, err := s.GetOrLoad(ctx, "k", time.Minute, load)
			require.NoError(t, err)
			assert.Equal(t, "v1", string(b))

			b, err = s.GetOrLoad(ctx, "k", time.Minute, load)
			require.NoError(t, err)
			assert.Equal(t, "v1", string(b))
			assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
		})
	}
}

func TestStore_LoadErrorNotCached(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			boom := errors.New("boom")

			_, err := s.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) { return nil, boom })
			assert.ErrorIs(t, err, boom)

			b, err := s.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) { return []byte("ok"), nil })
			require.NoError(t, err)
			assert.Equal(t, "ok", string(b))
		})
	}
}

func TestStore_Update(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			ok, err := s.Update(ctx, "missing", func(b []byte) ([]byte, error) { return b, nil })
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = s.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) { return []byte("a"), nil })
			require.NoError(t, err)

			ok, err = s.Update(ctx, "k", func(b []byte) ([]byte, error) { return append(b, 'b'), nil })
			require.NoError(t, err)
			assert.True(t, ok)

			b, err := s.GetOrLoad(ctx, "k", time.Minute, func(context.Context) ([]byte, error) {
				t.Fatal("unexpected reload")
				return nil, nil
			})
			require.NoError(t, err)
			assert.Equal(t, "ab", string(b))

			boom := errors.New("boom")
			_, err = s.Update(ctx, "k", func([]byte) ([]byte, error) { return nil, boom })
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, k := range []string{"dash:a", "dash:b", "other:c"} {
				_, err := s.GetOrLoad(ctx, k, time.Minute, func(context.Context) ([]byte, error) { return []byte(k), nil })
				require.NoError(t, err)
			}

			require.NoError(t, s.DeletePrefix(ctx, "dash:"))

			var reloaded []string
			for _, k := range []string{"dash:a", "dash:b", "other:c"} {
				_, err := s.GetOrLoad(ctx, k, time.Minute, func(context.Context) ([]byte, error) {
					reloaded = append(reloaded, k)
					return []byte(k), nil
				})
				require.NoError(t, err)
			}
			assert.Equal(t, []string{"dash:a", "dash:b"}, reloaded)

			require.NoError(t, s.DeletePrefix(ctx, "nothing:"))
		})
	}
}

func TestStore_ConcurrentLoadsCollapse(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var calls int32
			release := make(chan struct{})
			load := func(context.Context) ([]byte, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return []byte("v"), nil
			}

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					b, err := s.GetOrLoad(ctx, "hot", time.Minute, load)
					assert.NoError(t, err)
					assert.Equal(t, "v", string(b))
				}()
			}
			time.Sleep(50 * time.Millisecond)
			close(release)
			wg.Wait()

			assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
			assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
		})
	}
}

func TestRedisCache_UpdateKeepsTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	_, err := c.GetOrLoad(ctx, "k", 5*time.Minute, func(context.Context) ([]byte, error) { return []byte("a"), nil })
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	ok, err := c.Update(ctx, "k", func([]byte) ([]byte, error) { return []byte("b"), nil })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3*time.Minute, mr.TTL("k"))

	mr.FastForward(3 * time.Minute)
	assert.False(t, mr.Exists("k"))
}

func TestStore_ConcurrentUpdatesKeepEveryEdit(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.GetOrLoad(ctx, "list", time.Minute, func(context.Context) ([]byte, error) { return []byte("-"), nil })
			require.NoError(t, err)

			const n = 8
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(c byte) {
					defer wg.Done()
					ok, err := s.Update(ctx, "list", func(b []byte) ([]byte, error) {
						return append(append([]byte{}, b...), c), nil
					})
					assert.NoError(t, err)
					assert.True(t, ok)
				}('a' + byte(i))
			}
			wg.Wait()

			b, err := s.GetOrLoad(ctx, "list", time.Minute, func(context.Context) ([]byte, error) {
				t.Fatal("unexpected reload")
				return nil, nil
			})
			require.NoError(t, err)
			assert.Len(t, b, n+1)
			for i := 0; i < n; i++ {
				assert.Contains(t, string(b), string(rune('a'+i)))
			}
		})
	}
}

func TestRedisCache_InterleavedUpdatesRetry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	_, err := c.GetOrLoad(ctx, "list", time.Minute, func(context.Context) ([]byte, error) { return []byte("-"), nil })
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var attempts int32
	done := make(chan error, 1)
	go func() {
		_, err := c.Update(ctx, "list", func(b []byte) ([]byte, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				close(started)
				<-release
			}
			return append(append([]byte{}, b...), 'A'), nil
		})
		done <- err
	}()

	<-started
	ok, err := c.Update(ctx, "list", func(b []byte) ([]byte, error) {
		return append(append([]byte{}, b...), 'B'), nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	close(release)
	require.NoError(t, <-done)

	got, err := mr.Get("list")
	require.NoError(t, err)
	assert.Equal(t, "-BA", got)
	assert.EqualValues(t, 2, atomic.LoadInt32(&attempts))
	assert.Equal(t, time.Minute, mr.TTL("list"))
}

func TestMemoryCache_UpdateKeepsTTL(t *testing.T) {
	m := NewMemory(time.Minute, time.Minute)
	ctx := context.Background()

	_, err := m.GetOrLoad(ctx, "k", time.Hour, func(context.Context) ([]byte, error) { return []byte("a"), nil })
	require.NoError(t, err)
	_, before, _ := m.c.GetWithExpiration("k")

	ok, err := m.Update(ctx, "k", func([]byte) ([]byte, error) { return []byte("b"), nil })
	require.NoError(t, err)
	require.True(t, ok)

	_, after, _ := m.c.GetWithExpiration("k")
	assert.WithinDuration(t, before, after, time.Second)
}

func TestMemoryCache_ExpiredEntryReloads(t *testing.T) {
	m := NewMemory(time.Minute, time.Minute)
	ctx := context.Background()
	var calls int
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v"), nil
	}

	_, err := m.GetOrLoad(ctx, "k", 10*time.Millisecond, load)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = m.GetOrLoad(ctx, "k", 10*time.Millisecond, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
