package scope

import "context"

// Session keys used for the remembered context.
const (
	SessionKeyDomain   = "config_save_domain"
	SessionKeyLanguage = "config_save_language"
)

// SessionStore persists the remembered context for a user session.
// Get returns ok=false when the key is not set.
type SessionStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Lookup validates domain and language ids against the entities that exist.
type Lookup interface {
	DomainExists(ctx context.Context, id string) bool
	LanguageExists(ctx context.Context, id string) bool
}

// SelectionSource supplies the explicit selection for the current request.
type SelectionSource interface {
	CurrentSelection(ctx context.Context) (Selection, bool)
}

// SelectionFunc adapts a function to SelectionSource.
type SelectionFunc func(ctx context.Context) (Selection, bool)

// CurrentSelection calls f.
func (f SelectionFunc) CurrentSelection(ctx context.Context) (Selection, bool) {
	return f(ctx)
}
