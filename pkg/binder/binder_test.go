package binder_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/binder"
)

type callbackRequest struct {
	Provider string   `path:"provider"`
	Code     string   `query:"code"`
	State    string   `query:"state"`
	Attempt  int      `query:"attempt"`
	Scopes   []string `query:"scope"`
	Prompt   *string  `query:"prompt"`
	Internal string   `query:"-" path:"-"`
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/?code=abc&state=xyz&attempt=2&scope=email,profile&prompt=consent&Internal=no", nil)

		var req callbackRequest
		require.NoError(t, binder.Query()(r, &req))

		assert.Equal(t, "abc", req.Code)
		assert.Equal(t, "xyz", req.State)
		assert.Equal(t, 2, req.Attempt)
		assert.Equal(t, []string{"email", "profile"}, req.Scopes)
		require.NotNil(t, req.Prompt)
		assert.Equal(t, "consent", *req.Prompt)
		assert.Empty(t, req.Internal)
	})

	t.Run("absent parameters stay zero", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		var req callbackRequest
		require.NoError(t, binder.Query()(r, &req))
		assert.Empty(t, req.Code)
		assert.Nil(t, req.Prompt)
	})

	t.Run("conversion failure", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/?attempt=two", nil)

		var req callbackRequest
		assert.ErrorIs(t, binder.Query()(r, &req), binder.ErrFailedToParseQuery)
	})

	t.Run("non struct target", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		var s string
		assert.ErrorIs(t, binder.Query()(r, &s), binder.ErrFailedToParseQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	params := map[string]string{"provider": "google"}
	extractor := func(_ *http.Request, name string) string { return params[name] }

	r := httptest.NewRequest(http.MethodGet, "/auth/validate/google", nil)

	var req callbackRequest
	require.NoError(t, binder.Path(extractor)(r, &req))
	assert.Equal(t, "google", req.Provider)
	assert.Empty(t, req.Code)

	var s string
	assert.ErrorIs(t, binder.Path(extractor)(r, &s), binder.ErrFailedToParsePath)
}
