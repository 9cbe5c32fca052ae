package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/pkg/config"
)

func TestNew_MemoriaPorDefecto(t *testing.T) {
	ctx := context.Background()
	l, err := New(ctx, "2-M", config.RedisConfig{})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, "memory", l.Store)
	for i := 0; i < 2; i++ {
		lc, err := l.Get(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, lc.Reached)
	}
	lc, err := l.Get(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, lc.Reached)

	other, err := l.Get(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, other.Reached, "el límite es por clave")
}

func TestNew_RateInvalido(t *testing.T) {
	_, err := New(context.Background(), "muchos", config.RedisConfig{})
	assert.Error(t, err)
}
