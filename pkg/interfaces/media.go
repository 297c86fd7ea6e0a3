package interfaces

import "context"

// MediaResolver turns a stored file reference into the URL clients download
// it from.
type MediaResolver interface {
	ResolveURL(ctx context.Context, ref MediaReference) (string, error)
}

// MediaReference identifies a stored file and the record field holding it.
type MediaReference struct {
	Path   string
	Entity string
	Field  string
}
