package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapStore map[string]string

func (m mapStore) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return "", ErrSecretNotFound
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		source SecretSource
		env    string
		want   SecretSource
	}{
		{SourceAuto, "development", SourceEnvironment},
		{SourceAuto, "", SourceEnvironment},
		{SourceAuto, "staging", SourceVault},
		{SourceAuto, "production", SourceVault},
		{SourceEnvironment, "production", SourceEnvironment},
		{SourceVault, "development", SourceVault},
	}
	for _, tt := range tests {
		t.Run(string(tt.source)+"/"+tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSource(tt.source, tt.env))
		})
	}
}

func TestProvider_GetSecretOrEnv(t *testing.T) {
	ctx := context.Background()
	p := NewProviderWithStore(SourceVault, mapStore{"jwt-secret": "from-vault"}, zap.NewNop())

	t.Run("vault value", func(t *testing.T) {
		v, err := p.GetSecretOrEnv(ctx, "jwt-secret", "TEST_JWT_OVERRIDE")
		require.NoError(t, err)
		assert.Equal(t, "from-vault", v)
	})

	t.Run("environment override wins", func(t *testing.T) {
		t.Setenv("TEST_JWT_OVERRIDE", "from-env")
		v, err := p.GetSecretOrEnv(ctx, "jwt-secret", "TEST_JWT_OVERRIDE")
		require.NoError(t, err)
		assert.Equal(t, "from-env", v)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := p.GetSecretOrEnv(ctx, "nope", "TEST_NOPE")
		assert.True(t, errors.Is(err, ErrSecretNotFound))
		assert.Equal(t, "fallback", p.GetSecretOrEnvWithDefault(ctx, "nope", "TEST_NOPE", "fallback"))
	})
}

func TestProvider_EnvironmentSource(t *testing.T) {
	p := NewProviderWithStore(SourceEnvironment, nil, zap.NewNop())
	assert.False(t, p.IsVaultEnabled())

	_, err := p.GetSecret(context.Background(), "TEST_UNSET_SECRET")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	t.Setenv("TEST_SET_SECRET", "value")
	v, err := p.GetSecret(context.Background(), "TEST_SET_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "value", v)
}

func TestTTLCache(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTTLCache(time.Minute)
	c.now = func() time.Time { return now }

	c.put("a", "1")
	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	now = now.Add(time.Minute)
	_, ok = c.get("a")
	assert.False(t, ok, "entry must expire at ttl")

	var disabled *ttlCache
	disabled.put("a", "1")
	_, ok = disabled.get("a")
	assert.False(t, ok)
}
