package redisrpc

import (
	"encoding/json"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
)

// PatternGetOrCreateUser is the only request pattern the directory serves.
const PatternGetOrCreateUser = "get_or_create_user"

const (
	defaultRequestQueue = "directory:requests"
	defaultReplyPrefix  = "directory:replies:"
)

type request struct {
	ID      string          `json:"id"`
	Pattern string          `json:"pattern"`
	ReplyTo string          `json:"replyTo"`
	Data    json.RawMessage `json:"data"`
}

type getOrCreateUserData struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type reply struct {
	ID    string          `json:"id"`
	User  *directory.User `json:"user,omitempty"`
	Error *replyError     `json:"error,omitempty"`
}

type replyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeInvalidRequest = "invalid_request"
	codeInternal       = "internal"
)
