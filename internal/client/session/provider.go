package session

import "context"

// Provider identifies an authentication provider that can back a
// FieldSync account.
type Provider string

const (
	ProviderEmail    Provider = "email"
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderPhone    Provider = "phone"
)

// ProviderStatus is a capability slot: call sites branch on Available
// instead of parsing "not implemented" errors.
type ProviderStatus struct {
	Provider Provider
	// Available reports whether the linking flow for this provider is
	// implemented in this build.
	Available bool
	// Linked reports whether the current identity is linked through
	// this provider.
	Linked bool
}

// LinkedProviders reports the capability and link state of every known
// provider. Only email linking is implemented today; Google, Facebook,
// and phone are fixed "not available" slots.
func (m *Manager) LinkedProviders(ctx context.Context) ([]ProviderStatus, error) {
	identity, err := m.store.Identity(ctx)
	if err != nil {
		return nil, newStorageError(err)
	}

	emailLinked := identity != nil && !identity.IsAnonymous

	return []ProviderStatus{
		{Provider: ProviderEmail, Available: true, Linked: emailLinked},
		{Provider: ProviderGoogle, Available: false},
		{Provider: ProviderFacebook, Available: false},
		{Provider: ProviderPhone, Available: false},
	}, nil
}
