package provider

import "strings"

// Registry holds the registered providers. It is immutable after
// construction, so concurrent scans can share one instance.
type Registry struct {
	providers []Provider
	byName    map[string]Provider
}

// NewRegistry builds a registry from the given providers. Registration order
// is preserved by List and by the empty-selection default.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{byName: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		key := strings.ToLower(p.Name())
		if _, dup := r.byName[key]; dup {
			continue
		}
		r.byName[key] = p
		r.providers = append(r.providers, p)
	}
	return r
}

// List returns descriptors for all registered providers in registration order.
func (r *Registry) List() []Descriptor {
	descs := make([]Descriptor, 0, len(r.providers))
	for _, p := range r.providers {
		ok, reason := p.Available()
		descs = append(descs, Descriptor{
			Name:       p.Name(),
			Capability: p.Capability(),
			Available:  ok,
			Reason:     reason,
		})
	}
	return descs
}

// Get returns a provider by case-insensitive name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Resolve maps requested names to providers, preserving request order and
// normalizing case. Unknown names are returned, never silently dropped.
// An empty request resolves to all registered providers.
func (r *Registry) Resolve(names []string) ([]Provider, []string) {
	if len(names) == 0 {
		return append([]Provider(nil), r.providers...), nil
	}
	var (
		resolved []Provider
		unknown  []string
	)
	for _, name := range names {
		p, ok := r.Get(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		resolved = append(resolved, p)
	}
	return resolved, unknown
}
