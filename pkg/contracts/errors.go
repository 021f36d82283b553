package contracts

import (
	"errors"
	"fmt"

	"github.com/podsync/podsync/pkg/models"
)

// AuthenticationError means the credential probe failed for a vendor.
// It aborts the calling operation immediately.
type AuthenticationError struct {
	Provider models.ProviderType
	Reason   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %s", e.Provider, e.Reason)
}

// ProviderError is any non-success HTTP response or transport failure
// during a substantive vendor call, tagged with vendor identity and the
// underlying cause.
type ProviderError struct {
	Provider   models.ProviderType
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s: HTTP %d: %s", e.Provider, e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UnsupportedProviderError means a vendor identifier outside the known set
// was passed to the registry
type UnsupportedProviderError struct {
	Type string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider type %q", e.Type)
}

// MappingError is a per-item schema translation failure. During
// reconciliation it is caught and isolated into SyncResult.Errors rather
// than aborting the sync.
type MappingError struct {
	Provider models.ProviderType
	ItemID   string
	Reason   string
	Err      error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s: map item %s: %s", e.Provider, e.ItemID, e.Reason)
}

func (e *MappingError) Unwrap() error { return e.Err }

// IsAuthentication reports whether err is (or wraps) an AuthenticationError
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsMapping reports whether err is (or wraps) a MappingError
func IsMapping(err error) bool {
	var me *MappingError
	return errors.As(err, &me)
}
