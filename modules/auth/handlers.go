package auth

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/oauthgate/handler"
	"github.com/dmitrymomot/oauthgate/pkg/cookie"
	"github.com/dmitrymomot/oauthgate/pkg/jwt"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
)

type providerRequest struct {
	Provider string `path:"provider"`
}

type callbackRequest struct {
	Provider string `path:"provider"`
	Code     string `query:"code"`
	State    string `query:"state"`
	// Error is set when the user declined consent.
	Error string `query:"error"`
}

type noRequest struct{}

// LoginURLResponse is the JSON form of the login redirect.
type LoginURLResponse struct {
	URL        string `json:"url"`
	StatusCode int    `json:"statusCode"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccessTokenResponse carries a refreshed provider access token.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

func (m *Module) login(ctx handler.Context, req providerRequest) handler.Response {
	consentURL, err := m.auth.Login(ctx, req.Provider)
	if err != nil {
		return handler.Fail(httpError(err))
	}

	if handler.WantsJSON(ctx.Request()) {
		return handler.JSON(LoginURLResponse{URL: consentURL, StatusCode: http.StatusFound},
			handler.WithJSONHeader("Cache-Control", "no-store"))
	}
	return handler.Redirect(consentURL, http.StatusFound)
}

func (m *Module) validate(ctx handler.Context, req callbackRequest) handler.Response {
	if req.Code == "" || req.State == "" {
		if req.Error != "" {
			m.logger.InfoContext(ctx, "provider returned an error to the callback",
				logger.Provider(req.Provider))
		}
		return handler.Fail(errMissingCallbackParams)
	}

	id, err := m.auth.Callback(ctx, req.Provider, req.Code, req.State)
	if err != nil {
		return handler.Fail(httpError(err))
	}

	token, _, err := m.issuer.Sign(id.Subject, id.Email)
	if err != nil {
		return handler.Fail(httpError(err))
	}

	if err := m.cookies.Set(ctx.ResponseWriter(), m.cookieName, token,
		cookie.WithMaxAge(int(m.issuer.Lifetime()/time.Second)),
	); err != nil {
		return handler.Fail(httpError(err))
	}

	return handler.Redirect(m.profileURL, http.StatusFound)
}

func (m *Module) session(ctx handler.Context, _ noRequest) handler.Response {
	claims, ok := jwt.ClaimsFromContext(ctx)
	if !ok {
		return handler.Fail(handler.ErrUnauthorized)
	}
	return handler.JSON(SessionResponse{
		Subject:   claims.Subject,
		Email:     claims.Email,
		IssuedAt:  time.Unix(claims.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}, handler.WithJSONHeader("Cache-Control", "no-store"))
}

func (m *Module) logout(ctx handler.Context, _ noRequest) handler.Response {
	m.cookies.Delete(ctx.ResponseWriter(), m.cookieName)
	return handler.Empty()
}

func (m *Module) refresh(ctx handler.Context, req providerRequest) handler.Response {
	claims, ok := jwt.ClaimsFromContext(ctx)
	if !ok {
		return handler.Fail(handler.ErrUnauthorized)
	}

	token, err := m.auth.RefreshAccessToken(ctx, req.Provider, claims.Subject)
	if err != nil {
		return handler.Fail(httpError(err))
	}

	return handler.JSON(AccessTokenResponse{
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
	}, handler.WithJSONHeader("Cache-Control", "no-store"))
}
