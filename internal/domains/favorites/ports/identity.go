package ports

import "github.com/Apurer/cat-haven/internal/domains/favorites/domain"

// IdentityProvider reports who is signed in and notifies on every sign-in and sign-out.
type IdentityProvider interface {
	// Current returns the signed-in identity (nil when anonymous) and whether the provider has resolved.
	Current() (*domain.Identity, bool)
	// Subscribe registers fn for identity changes. When the provider is already resolved
	// fn is called once immediately with the current identity.
	Subscribe(fn func(*domain.Identity)) (unsubscribe func())
}
