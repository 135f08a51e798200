// Package handler provides type-safe HTTP request handling for the formkit
// JSON API.
//
// Handlers are generic over the request struct they receive and return a
// Response:
//
//	type ValidateRequest struct {
//		Form   string           `path:"form"`
//		Values validator.Record `json:"values"`
//	}
//
//	func validate(ctx handler.Context, req ValidateRequest) handler.Response {
//		results, err := svc.Validate(ctx, req.Form, req.Values)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(results)
//	}
//
//	r.Post("/{form}/validate", handler.Wrap(validate,
//		handler.WithBinders(binder.Path(chi.URLParam), binder.JSON()),
//	))
//
// Binders run in order and may skip a request by returning
// binder.ErrBinderNotApplicable. Binding and rendering failures go to the
// ErrorHandler; NewErrorHandler logs them and answers with the JSON
// envelope:
//
//	{"data": ..., "meta": {...}, "error": {"code": "...", "message": "...", "details": {...}}}
//
// HTTPError values map to their status code and translation key, and
// validator.ValidationErrors map to 422 with per-field details.
//
// Decorators run around the handler and may replace its response.
package handler
