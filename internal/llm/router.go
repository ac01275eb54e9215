package llm

import (
	"context"
	"fmt"
	"sort"
)

// Router selects the Provider used for a request.
type Router struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewRouter creates a Router with an initial set of providers and a default key.
func NewRouter(providers map[string]Provider, defaultProvider string) *Router {
	ps := make(map[string]Provider, len(providers))
	for k, v := range providers {
		ps[k] = v
	}
	return &Router{providers: ps, defaultProvider: defaultProvider}
}

// Route returns the default provider, or an error if it is not registered.
func (r *Router) Route(_ context.Context) (Provider, error) {
	p, ok := r.providers[r.defaultProvider]
	if !ok {
		return nil, fmt.Errorf("llm router: provider %q not registered (available: %v)", r.defaultProvider, r.keys())
	}
	return p, nil
}

// Name reports the default provider key.
func (r *Router) Name() string { return r.defaultProvider }

// Generate routes the request to the selected provider.
func (r *Router) Generate(ctx context.Context, req Request) (*Response, error) {
	p, err := r.Route(ctx)
	if err != nil {
		return nil, err
	}
	return p.Generate(ctx, req)
}

func (r *Router) keys() []string {
	out := make([]string, 0, len(r.providers))
	for k := range r.providers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var _ Provider = (*Router)(nil)
