package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

func TestCreateAdapterKnownProviders(t *testing.T) {
	creds := models.Credentials{APIKey: "key", ShopID: "1"}

	for _, providerType := range models.KnownProviders() {
		adapter, err := CreateAdapter(providerType, creds)
		require.NoError(t, err, "provider %s", providerType)
		assert.Equal(t, providerType, adapter.Provider())
	}
}

func TestCreateAdapterUnknownProvider(t *testing.T) {
	_, err := CreateAdapter("unknown-vendor", models.Credentials{APIKey: "key"})
	require.Error(t, err)

	var ue *contracts.UnsupportedProviderError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "unknown-vendor", ue.Type)
}

func TestCreateAdapterReturnsFreshInstances(t *testing.T) {
	creds := models.Credentials{APIKey: "key"}
	a, err := CreateAdapter(models.ProviderPrintful, creds)
	require.NoError(t, err)
	b, err := CreateAdapter(models.ProviderPrintful, creds)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestProviderRegistryRegisterAndGet(t *testing.T) {
	reg := NewProviderRegistry()
	adapter, err := CreateAdapter(models.ProviderGelato, models.Credentials{APIKey: "key"})
	require.NoError(t, err)

	require.NoError(t, reg.Register(adapter))
	assert.Equal(t, 1, reg.Count())

	got, ok := reg.Get(models.ProviderGelato)
	require.True(t, ok)
	assert.Equal(t, models.ProviderGelato, got.Provider())

	_, ok = reg.Get(models.ProviderGooten)
	assert.False(t, ok)
}

func TestProviderRegistryDuplicate(t *testing.T) {
	reg := NewProviderRegistry()
	adapter, err := CreateAdapter(models.ProviderPrintify, models.Credentials{APIKey: "key", ShopID: "1"})
	require.NoError(t, err)

	require.NoError(t, reg.Register(adapter))
	err = reg.Register(adapter)
	require.Error(t, err)

	var dup *AlreadyRegisteredError
	assert.True(t, errors.As(err, &dup))
}
