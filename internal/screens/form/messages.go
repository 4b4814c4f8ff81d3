package form

import "github.com/abhisek/readquiz/internal/catalog"

// catalogLoadedMsg carries the result of a model listing fetch.
type catalogLoadedMsg struct {
	Catalog catalog.Catalog
	Err     error
}
