// Package binder fills typed request structs from HTTP requests.
//
// Each binder handles one source: JSON for the body and Path for route
// parameters. They are combined with handler.WithBinders and applied in
// order; a binder returning ErrBinderNotApplicable is skipped. Path only
// touches fields carrying a `path` tag, while JSON follows the usual
// `json` tags.
package binder
