package binder

import "net/http"

// Path binds `path:"name"` fields from route parameters using extractor,
// typically chi.URLParam.
//
//	type FieldRequest struct {
//		Form  string `path:"form"`
//		Field string `path:"field"`
//	}
//
//	r.Post("/{form}/fields/{field}/validate", handler.Wrap(h.validateField,
//		handler.WithBinders(binder.Path(chi.URLParam), binder.JSON()),
//	))
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return ErrFailedToParsePath
		}
		return bindToStruct(v, "path", func(name string) string {
			return extractor(r, name)
		}, ErrFailedToParsePath)
	}
}

