package registry

import (
	"sync"

	"github.com/podsync/podsync/adapters/gelato"
	"github.com/podsync/podsync/adapters/gooten"
	"github.com/podsync/podsync/adapters/printful"
	"github.com/podsync/podsync/adapters/printify"
	"github.com/podsync/podsync/pkg/contracts"
	"github.com/podsync/podsync/pkg/models"
)

// CreateAdapter constructs a fresh adapter for the given vendor
// identifier. Total over the closed provider set; anything else is an
// UnsupportedProviderError. Stateless and safe to call concurrently;
// independent adapter instances share no state.
func CreateAdapter(providerType models.ProviderType, creds models.Credentials) (contracts.ProviderAdapter, error) {
	switch providerType {
	case models.ProviderPrintful:
		return printful.NewClient(creds), nil
	case models.ProviderPrintify:
		return printify.NewClient(creds), nil
	case models.ProviderGooten:
		return gooten.NewClient(creds), nil
	case models.ProviderGelato:
		return gelato.NewClient(creds), nil
	default:
		return nil, &contracts.UnsupportedProviderError{Type: string(providerType)}
	}
}

// ProviderRegistry holds the configured adapter instances the scheduler
// and order tracker operate on
type ProviderRegistry struct {
	adapters map[models.ProviderType]contracts.ProviderAdapter
	mu       sync.RWMutex
}

// NewProviderRegistry creates an empty provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		adapters: make(map[models.ProviderType]contracts.ProviderAdapter),
	}
}

// Register adds an adapter instance to the registry
func (r *ProviderRegistry) Register(adapter contracts.ProviderAdapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	providerType := adapter.Provider()
	if _, exists := r.adapters[providerType]; exists {
		return &AlreadyRegisteredError{Provider: providerType}
	}

	r.adapters[providerType] = adapter
	return nil
}

// Get retrieves an adapter by provider type
func (r *ProviderRegistry) Get(providerType models.ProviderType) (contracts.ProviderAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[providerType]
	return adapter, exists
}

// GetAll returns all registered adapters
func (r *ProviderRegistry) GetAll() []contracts.ProviderAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapters := make([]contracts.ProviderAdapter, 0, len(r.adapters))
	for _, adapter := range r.adapters {
		adapters = append(adapters, adapter)
	}
	return adapters
}

// Count returns the number of registered adapters
func (r *ProviderRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.adapters)
}

// AlreadyRegisteredError means two adapter instances were registered
// for the same vendor
type AlreadyRegisteredError struct {
	Provider models.ProviderType
}

func (e *AlreadyRegisteredError) Error() string {
	return "provider " + string(e.Provider) + " is already registered"
}
