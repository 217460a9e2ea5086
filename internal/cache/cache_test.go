package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	Total int64  `json:"total"`
	Name  string `json:"name"`
}

type recordingLogger struct{ warnings []string }

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (brokenCache) Set(context.Context, string, []byte) error { return errors.New("connection refused") }

func TestKey(t *testing.T) {
	a, err := Key("project", map[string]int{"horizon": 10})
	require.NoError(t, err)
	b, err := Key("project", map[string]int{"horizon": 10})
	require.NoError(t, err)
	c, err := Key("project", map[string]int{"horizon": 11})
	require.NoError(t, err)
	d, err := Key("amortize", map[string]int{"horizon": 10})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Len(t, a, len("project:")+64)

	_, err = Key("bad", func() {})
	assert.Error(t, err)
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	log := &recordingLogger{}
	calls := 0
	compute := func() (result, error) {
		calls++
		return result{Total: 42, Name: "x"}, nil
	}

	v, hit, err := GetOrCompute(ctx, c, "k", log, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, result{Total: 42, Name: "x"}, v)

	v, hit, err = GetOrCompute(ctx, c, "k", log, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, result{Total: 42, Name: "x"}, v)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
	assert.Empty(t, log.warnings)
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	boom := errors.New("boom")

	_, _, err := GetOrCompute(ctx, c, "k", &recordingLogger{}, func() (result, error) { return result{}, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestGetOrComputeSurvivesBrokenCache(t *testing.T) {
	log := &recordingLogger{}
	v, hit, err := GetOrCompute(context.Background(), brokenCache{}, "k", log, func() (result, error) {
		return result{Total: 7}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(7), v.Total)
	require.Len(t, log.warnings, 2)
	assert.Contains(t, log.warnings[0], "cache read k failed")
	assert.Contains(t, log.warnings[1], "cache write k failed")
}

func TestGetOrComputeRecomputesCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "k", []byte("{not json")))
	log := &recordingLogger{}

	v, hit, err := GetOrCompute(ctx, c, "k", log, func() (result, error) { return result{Total: 1}, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(1), v.Total)
	assert.Len(t, log.warnings, 1)
}

func TestGetOrComputeWithoutCache(t *testing.T) {
	v, hit, err := GetOrCompute(context.Background(), nil, "k", nil, func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, v)
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", string(got))

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestRedisCache runs against a live server named by FINPLAN_TEST_REDIS_ADDR.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("FINPLAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FINPLAN_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c := NewRedisCache(addr, time.Minute)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	key := fmt.Sprintf("test:%d", time.Now().UnixNano())
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	v, hit, err := GetOrCompute(ctx, c, key, &recordingLogger{}, func() (result, error) { return result{Total: 9}, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	v, hit, err = GetOrCompute(ctx, c, key, &recordingLogger{}, func() (result, error) { return result{}, nil })
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(9), v.Total)
}
