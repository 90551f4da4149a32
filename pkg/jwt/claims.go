package jwt

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/oauthgate/pkg/validator"
)

// Claims is the session payload. Timestamps are unix seconds.
type Claims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// rawClaims distinguishes absent fields from zero values while decoding.
type rawClaims struct {
	Subject   *string `json:"sub"`
	Email     *string `json:"email"`
	IssuedAt  *int64  `json:"iat"`
	ExpiresAt *int64  `json:"exp"`
}

// parseClaims decodes and schema-checks a payload. Mistyped values fail
// decoding; missing ones fail the presence checks.
func parseClaims(payload []byte) (Claims, error) {
	var raw rawClaims
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&raw); err != nil {
		return Claims{}, errors.Join(ErrInvalidClaims, err)
	}
	if dec.More() {
		return Claims{}, errors.Join(ErrInvalidClaims, errors.New("trailing data after payload"))
	}

	if raw.Subject == nil || raw.Email == nil || raw.IssuedAt == nil || raw.ExpiresAt == nil {
		return Claims{}, errors.Join(ErrInvalidClaims, errors.New("sub, email, iat and exp are required"))
	}

	c := Claims{
		Subject:   *raw.Subject,
		Email:     *raw.Email,
		IssuedAt:  *raw.IssuedAt,
		ExpiresAt: *raw.ExpiresAt,
	}

	if err := validator.Apply(
		validator.Required("sub", c.Subject),
		validator.ValidEmail("email", c.Email),
	); err != nil {
		return Claims{}, errors.Join(ErrInvalidClaims, err)
	}
	if c.IssuedAt <= 0 {
		return Claims{}, errors.Join(ErrInvalidClaims, errors.New("iat must be positive"))
	}
	if c.ExpiresAt <= c.IssuedAt {
		return Claims{}, errors.Join(ErrInvalidClaims, errors.New("exp must be after iat"))
	}

	return c, nil
}
