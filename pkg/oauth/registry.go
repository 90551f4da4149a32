package oauth

import "fmt"

type factory func(cfg Config, opts ...Option) (Strategy, error)

// factories is indexed by Provider. Adding a provider without wiring its
// constructor here fails to compile.
var factories = [...]factory{
	ProviderGoogle: NewGoogle,
}

var _ = [1]struct{}{}[len(factories)-int(providerCount)]

// Registry resolves a Strategy for a provider name.
type Registry struct {
	strategies [providerCount]Strategy
}

// NewRegistry builds a strategy for every declared provider.
func NewRegistry(cfg Config, opts ...Option) (*Registry, error) {
	r := &Registry{}
	for p := range providerCount {
		s, err := factories[p](cfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("oauth: init %s strategy: %w", p, err)
		}
		r.strategies[p] = s
	}
	return r, nil
}

// NewRegistryWith builds a registry from prepared strategies.
// Providers without a strategy are rejected like unknown ones.
func NewRegistryWith(strategies ...Strategy) *Registry {
	r := &Registry{}
	for _, s := range strategies {
		if s != nil && s.Provider().Valid() {
			r.strategies[s.Provider()] = s
		}
	}
	return r
}

// Strategy resolves name to a strategy. Unknown names fail with
// ErrUnsupportedProvider before any side effect.
func (r *Registry) Strategy(name string) (Strategy, error) {
	p, err := ParseProvider(name)
	if err != nil {
		return nil, err
	}
	return r.Get(p)
}

// Get returns the strategy for p.
func (r *Registry) Get(p Provider) (Strategy, error) {
	if !p.Valid() || r.strategies[p] == nil {
		return nil, ErrUnsupportedProvider
	}
	return r.strategies[p], nil
}
