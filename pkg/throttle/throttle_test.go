package throttle

import (
	"context"
	"errors"
	"sync"
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
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestMemory() (*Memory, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = c.now
	return m, c
}

func TestLimiter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, clk := newTestMemory()
	lim := New(store)

	for i := range DefaultLimit {
		blocked, err := lim.Exceeded(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, blocked, "attempt %d", i+1)

		left, err := lim.Fail(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.EqualValues(t, DefaultLimit-i-1, left)
	}

	blocked, err := lim.Exceeded(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, blocked)

	other, err := lim.Exceeded(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.False(t, other, "keys are independent")

	left, err := lim.Fail(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Zero(t, left)

	clk.advance(DefaultWindow)
	blocked, err = lim.Exceeded(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, blocked, "window expired")
}

func TestLimiterReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestMemory()
	lim := New(store, WithLimit(2), WithWindow(time.Minute))

	_, _ = lim.Fail(ctx, "ip")
	_, _ = lim.Fail(ctx, "ip")
	blocked, _ := lim.Exceeded(ctx, "ip")
	require.True(t, blocked)

	require.NoError(t, lim.Reset(ctx, "ip"))
	blocked, _ = lim.Exceeded(ctx, "ip")
	assert.False(t, blocked)
}

func TestLimiterPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestMemory()
	login := New(store, WithLimit(1))
	signup := New(store, WithLimit(1), WithPrefix("signup:"))

	_, _ = login.Fail(ctx, "ip")
	blocked, _ := signup.Exceeded(ctx, "ip")
	assert.False(t, blocked)
}

func TestMemoryWindowStartsAtFirstHit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, clk := newTestMemory()

	n, _ := m.Incr(ctx, "k", time.Minute)
	assert.EqualValues(t, 1, n)
	clk.advance(40 * time.Second)
	n, _ = m.Incr(ctx, "k", time.Minute)
	assert.EqualValues(t, 2, n, "later hits do not extend the window")
	clk.advance(20 * time.Second)

	c, _ := m.Count(ctx, "k")
	assert.Zero(t, c)
	n, _ = m.Incr(ctx, "k", time.Minute)
	assert.EqualValues(t, 1, n)
}

func TestMemorySweepsOnInterval(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, clk := newTestMemory()

	_, _ = m.Incr(ctx, "old", time.Second)
	clk.advance(2 * time.Second)
	_, _ = m.Incr(ctx, "new", time.Hour)

	m.mu.Lock()
	_, kept := m.entries["old"]
	m.mu.Unlock()
	assert.True(t, kept, "no full scan before the sweep interval")

	c, _ := m.Count(ctx, "old")
	assert.Zero(t, c, "expired key reads as empty before it is swept")
	n, _ := m.Incr(ctx, "old", time.Second)
	assert.EqualValues(t, 1, n, "expired key starts a new window before it is swept")

	clk.advance(sweepInterval)
	_, _ = m.Incr(ctx, "new", time.Hour)

	m.mu.Lock()
	_, kept = m.entries["old"]
	size := len(m.entries)
	m.mu.Unlock()
	assert.False(t, kept)
	assert.Equal(t, 1, size)
}

func TestMemoryConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			_, _ = m.Incr(ctx, "k", time.Minute)
		})
	}
	wg.Wait()

	n, err := m.Count(ctx, "k")
	require.NoError(t, err)
	assert.EqualValues(t, 50, n)
}

type failingStore struct{}

var errDown = errors.New("down")

func (failingStore) Incr(context.Context, string, time.Duration) (int64, error) { return 0, errDown }
func (failingStore) Count(context.Context, string) (int64, error)               { return 0, errDown }
func (failingStore) Reset(context.Context, string) error                        { return errDown }

func TestLimiterStoreErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lim := New(failingStore{})

	_, err := lim.Exceeded(ctx, "ip")
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, errDown)

	_, err = lim.Fail(ctx, "ip")
	assert.ErrorIs(t, err, ErrStore)

	assert.ErrorIs(t, lim.Reset(ctx, "ip"), ErrStore)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
)
