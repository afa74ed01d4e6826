package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	var out []string

	require.NoError(t, c.Set(context.Background(), KeyCategories, []string{"a"}))
	hit, err := c.Get(context.Background(), KeyCategories, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, url)
	if err != nil {
		t.Skipf("Could not connect to redis: %v", err)
	}
	c := NewRedisCache(client, "blog-test-"+time.Now().Format("150405.000"), time.Minute)
	t.Cleanup(func() {
		_ = c.Delete(context.Background(), KeyCategories)
		_ = c.Close()
	})

	var out []string
	hit, err := c.Get(ctx, KeyCategories, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, KeyCategories, []string{"Tümü", "Kariyer"}))

	hit, err = c.Get(ctx, KeyCategories, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Tümü", "Kariyer"}, out)

	require.NoError(t, c.Delete(ctx, KeyCategories))
	hit, err = c.Get(ctx, KeyCategories, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
