package catalog

import (
	"context"
	"sort"
)

// Model describes one selectable model of a provider.
type Model struct {
	ID string
}

// Listing is one entry of the flat model listing the backend returns.
type Listing struct {
	ID       string
	Provider string
}

// Catalog maps a provider to its ordered models. A Catalog is replaced
// whole, never patched.
type Catalog map[string][]Model

// Lister fetches the flat model listing. *api.Client implements it.
type Lister interface {
	ListModels(ctx context.Context) ([]Listing, error)
}

// preferredOrder puts the original two providers first in pickers.
var preferredOrder = []string{"ollama", "groq"}

// Partition groups a flat listing by provider, keeping each provider's
// models in listing order. Duplicate ids within a provider are dropped.
func Partition(listings []Listing) Catalog {
	cat := make(Catalog)
	seen := make(map[string]map[string]bool)
	for _, l := range listings {
		if l.Provider == "" || l.ID == "" {
			continue
		}
		if seen[l.Provider] == nil {
			seen[l.Provider] = make(map[string]bool)
		}
		if seen[l.Provider][l.ID] {
			continue
		}
		seen[l.Provider][l.ID] = true
		cat[l.Provider] = append(cat[l.Provider], Model{ID: l.ID})
	}
	return cat
}

// Load fetches and partitions the listing.
func Load(ctx context.Context, l Lister) (Catalog, error) {
	listings, err := l.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return Partition(listings), nil
}

// Models returns a copy of provider's models.
func (c Catalog) Models(provider string) []Model {
	return append([]Model(nil), c[provider]...)
}

// Has reports whether provider lists a model with the given id.
func (c Catalog) Has(provider, id string) bool {
	for _, m := range c[provider] {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Providers returns the catalog's providers: ollama and groq first when
// present, then the rest alphabetically.
func (c Catalog) Providers() []string {
	var out []string
	for _, p := range preferredOrder {
		if _, ok := c[p]; ok {
			out = append(out, p)
		}
	}
	var rest []string
	for p := range c {
		if !contains(preferredOrder, p) {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// ResolveDefault returns the first model id listed for provider, or "" when
// the provider has no models.
func ResolveDefault(provider string, cat Catalog) string {
	models := cat[provider]
	if len(models) == 0 {
		return ""
	}
	return models[0].ID
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
