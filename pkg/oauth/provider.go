package oauth

import "strings"

// Provider is the closed set of supported identity providers.
type Provider int

const (
	ProviderGoogle Provider = iota

	// providerCount must stay last.
	providerCount
)

var providerNames = [...]string{
	ProviderGoogle: "google",
}

// Every Provider needs a name. A missing or extra entry fails to compile.
var _ = [1]struct{}{}[len(providerNames)-int(providerCount)]

// String returns the provider's canonical lowercase name.
func (p Provider) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return providerNames[p]
}

// Valid reports whether p is one of the declared providers.
func (p Provider) Valid() bool {
	return p >= 0 && p < providerCount
}

// ParseProvider maps a name from a URL or a stored row back to a Provider.
func ParseProvider(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p := range providerCount {
		if providerNames[p] == name {
			return p, nil
		}
	}
	return 0, ErrUnsupportedProvider
}

// Providers lists every declared provider.
func Providers() []Provider {
	out := make([]Provider, 0, providerCount)
	for p := range providerCount {
		out = append(out, p)
	}
	return out
}
