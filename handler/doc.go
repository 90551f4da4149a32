// Package handler provides typed HTTP handlers.
//
// A HandlerFunc receives a Context and a request struct filled by binders
// (see pkg/binder) and returns a Response. Wrap turns it into an
// http.HandlerFunc; binding failures, nil responses and render errors are
// passed to an ErrorHandler.
//
//	type LoginRequest struct {
//		Provider string `path:"provider"`
//	}
//
//	func (h *Handler) login(ctx handler.Context, req LoginRequest) handler.Response {
//		url, err := h.auth.Login(ctx, req.Provider)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.Redirect(url, http.StatusFound)
//	}
//
// # Responses
//
//	handler.JSON(v)                  // 200 with v as the body
//	handler.JSON(v, handler.WithJSONStatus(201))
//	handler.JSONError(err)           // {"error":{"code":...,"message":...}}
//	handler.Redirect(url, 302)
//	handler.Empty()                  // 204
//
// # Errors
//
// JSONError only exposes what an HTTPError carries. Any other error renders as
// a generic 500, so causes wrapped in HTTPError.Err stay in the logs.
package handler
