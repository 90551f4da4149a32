package tokenstore

import "errors"

var (
	ErrTokenNotFound = errors.New("tokenstore: token not found")
	ErrTokenExists   = errors.New("tokenstore: token already exists for owner and provider")
	ErrInvalidInput  = errors.New("tokenstore: owner, provider and secret are required")
	ErrStorage       = errors.New("tokenstore: storage failure")
)
