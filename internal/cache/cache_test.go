package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestMemory() (*Memory[string], *clock) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory[string]()
	m.now = clk.now
	return m, clk
}

func TestMemory_GetSetExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, clk := newTestMemory()

	_, err := m.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	clk.advance(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Sweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, clk := newTestMemory()

	require.NoError(t, m.Set(ctx, "old", "a", time.Minute))
	clk.advance(30 * time.Second)
	require.NoError(t, m.Set(ctx, "new", "b", time.Minute))
	clk.advance(45 * time.Second)

	n, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, m.Len())

	v, err := m.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory()
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Set(context.Background(), "k", "v", time.Minute), ErrClosed)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory()
	var g Group

	var calls atomic.Int32
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		return "computed", nil
	}

	v, hit, err := GetOrSet[string](ctx, &g, m, "key", time.Minute, fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "computed", v)

	v, hit, err = GetOrSet[string](ctx, &g, m, "key", time.Minute, fn)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "computed", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrSet_ErrorNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestMemory()
	var g Group
	boom := errors.New("boom")

	_, _, err := GetOrSet[string](ctx, &g, m, "err-key", time.Minute, func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())
}

func TestGetOrSet_SharedCallSurvivesCallerCancel(t *testing.T) {
	t.Parallel()
	m, _ := newTestMemory()
	var g Group

	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(ctx context.Context) (string, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "computed", nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := GetOrSet[string](first, &g, m, "key", time.Minute, fn)
		firstErr <- err
	}()
	<-started

	secondRes := make(chan string, 1)
	go func() {
		v, _, err := GetOrSet[string](context.Background(), &g, m, "key", time.Minute, fn)
		if err != nil {
			v = "err: " + err.Error()
		}
		secondRes <- v
	}()

	cancel()
	close(release)

	require.NoError(t, <-firstErr)
	assert.Equal(t, "computed", <-secondRes)
}

func TestGetOrSet_GroupsAreIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, _ := newTestMemory()
	b, _ := newTestMemory()
	var ga, gb Group

	va, _, err := GetOrSet[string](ctx, &ga, a, "same", time.Minute, func(context.Context) (string, error) { return "from a", nil })
	require.NoError(t, err)
	vb, _, err := GetOrSet[string](ctx, &gb, b, "same", time.Minute, func(context.Context) (string, error) { return "from b", nil })
	require.NoError(t, err)

	assert.Equal(t, "from a", va)
	assert.Equal(t, "from b", vb)
}
