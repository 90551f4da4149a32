// Package binder binds HTTP request data to typed request structs.
//
// Query binds `query:"name"` fields from the URL query and Path binds
// `path:"name"` fields through a router specific extractor such as
// chi.URLParam. Both leave absent parameters at their zero value and wrap
// conversion failures in ErrFailedToParseQuery or ErrFailedToParsePath.
//
//	type CallbackRequest struct {
//		Provider string `path:"provider"`
//		Code     string `query:"code"`
//		State    string `query:"state"`
//	}
//
//	r.Get("/auth/validate/{provider}", handler.Wrap(h.validate,
//		handler.WithBinders[handler.Context, CallbackRequest](
//			binder.Path(chi.URLParam),
//			binder.Query(),
//		),
//	))
package binder
