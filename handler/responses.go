package handler

import "net/http"

// emptyResponse writes only a status code.
type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty creates a 204 No Content response.
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

// redirectResponse performs an HTTP redirect.
type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect creates a redirect response. Valid codes are 301, 302, 303,
// 307 and 308; anything else becomes 303 See Other.
func Redirect(url string, code int) Response {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
	default:
		code = http.StatusSeeOther
	}
	return redirectResponse{url: url, code: code}
}

// errorResponse defers err to the Wrap error handler, which logs and renders it.
type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Fail hands err to the configured ErrorHandler.
func Fail(err error) Response {
	return errorResponse{err: err}
}
