package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// jsonResponse implements Response for JSON rendering
type jsonResponse struct {
	status  int
	body    any
	headers http.Header
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for k, v := range j.headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONHeader adds a response header.
func WithJSONHeader(key, value string) JSONOption {
	return func(r *jsonResponse) {
		if r.headers == nil {
			r.headers = make(http.Header)
		}
		r.headers.Add(key, value)
	}
}

// JSON renders v as the response body with status 200.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
		body:   v,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err as an ErrorBody. An HTTPError anywhere in the chain
// sets the status and message; anything else is a generic 500 so internal
// details never leak.
func JSONError(err error, opts ...JSONOption) Response {
	status, message := StatusOf(err)
	r := &jsonResponse{
		status: status,
		body: ErrorBody{Error: ErrorDetail{
			Code:    status,
			Message: message,
		}},
		headers: http.Header{"Cache-Control": []string{"no-store"}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StatusOf returns the status and client-safe message for err.
func StatusOf(err error) (int, string) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Message
	}
	return ErrInternalServerError.Code, ErrInternalServerError.Message
}
