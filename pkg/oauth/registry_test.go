package oauth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/oauth"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    oauth.Provider
		wantErr bool
	}{
		{"google", "google", oauth.ProviderGoogle, false},
		{"mixed case", "Google", oauth.ProviderGoogle, false},
		{"unknown", "bogus-provider", 0, true},
		{"empty", "", 0, true},
		{"github is not wired", "github", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := oauth.ParseProvider(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, oauth.ErrUnsupportedProvider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProvider_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "google", oauth.ProviderGoogle.String())
	assert.Equal(t, "unknown", oauth.Provider(-1).String())
	assert.Equal(t, "unknown", oauth.Provider(1000).String())
	assert.Len(t, oauth.Providers(), 1)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r, err := oauth.NewRegistry(testConfig)
	require.NoError(t, err)

	s, err := r.Strategy("google")
	require.NoError(t, err)
	assert.Equal(t, oauth.ProviderGoogle, s.Provider())

	_, err = r.Strategy("bogus-provider")
	assert.ErrorIs(t, err, oauth.ErrUnsupportedProvider)

	_, err = r.Get(oauth.Provider(42))
	assert.ErrorIs(t, err, oauth.ErrUnsupportedProvider)
}

func TestRegistry_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := oauth.NewRegistry(oauth.Config{})
	assert.ErrorIs(t, err, oauth.ErrInvalidConfig)
}

func TestNewRegistryWith(t *testing.T) {
	t.Parallel()

	empty := oauth.NewRegistryWith()
	_, err := empty.Strategy("google")
	assert.ErrorIs(t, err, oauth.ErrUnsupportedProvider)

	g, err := oauth.NewGoogle(testConfig)
	require.NoError(t, err)
	r := oauth.NewRegistryWith(g)
	got, err := r.Strategy("google")
	require.NoError(t, err)
	assert.Same(t, g, got)
}
