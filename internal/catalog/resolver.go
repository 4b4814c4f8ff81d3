package catalog

// Selection is the provider/model pairs for both stages.
type Selection struct {
	TextProvider     string
	TextModel        string
	QuestionProvider string
	QuestionModel    string
}

// Resolver keeps model selections consistent with their providers and the
// catalog. It reacts only to provider changes and catalog replacement; a
// selected model still offered by its provider is never reset.
type Resolver struct {
	catalog Catalog
	sel     Selection
}

// NewResolver starts with an empty catalog and the given selection. Models
// are repaired once a catalog arrives.
func NewResolver(sel Selection) *Resolver {
	return &Resolver{catalog: Catalog{}, sel: sel}
}

// SetCatalog replaces the catalog and re-validates both pairs.
func (r *Resolver) SetCatalog(cat Catalog) {
	if cat == nil {
		cat = Catalog{}
	}
	r.catalog = cat
	r.sel.TextModel = repair(r.sel.TextProvider, r.sel.TextModel, cat)
	r.sel.QuestionModel = repair(r.sel.QuestionProvider, r.sel.QuestionModel, cat)
}

// SetTextProvider changes the text provider and re-validates its model.
func (r *Resolver) SetTextProvider(provider string) {
	r.sel.TextProvider = provider
	r.sel.TextModel = repair(provider, r.sel.TextModel, r.catalog)
}

// SetQuestionProvider changes the question provider and re-validates its
// model.
func (r *Resolver) SetQuestionProvider(provider string) {
	r.sel.QuestionProvider = provider
	r.sel.QuestionModel = repair(provider, r.sel.QuestionModel, r.catalog)
}

// SetTextModel records an explicit text model choice.
func (r *Resolver) SetTextModel(id string) { r.sel.TextModel = id }

// SetQuestionModel records an explicit question model choice.
func (r *Resolver) SetQuestionModel(id string) { r.sel.QuestionModel = id }

// Selection returns the current pairs.
func (r *Resolver) Selection() Selection { return r.sel }

// Catalog returns the current catalog. Callers must treat it as read-only.
func (r *Resolver) Catalog() Catalog { return r.catalog }

// Models lists the models offered by provider.
func (r *Resolver) Models(provider string) []Model { return r.catalog.Models(provider) }

// Providers lists the catalog's providers.
func (r *Resolver) Providers() []string { return r.catalog.Providers() }

func repair(provider, model string, cat Catalog) string {
	if model != "" && cat.Has(provider, model) {
		return model
	}
	return ResolveDefault(provider, cat)
}
