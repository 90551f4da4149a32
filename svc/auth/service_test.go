package auth_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
	"github.com/dmitrymomot/oauthgate/pkg/oauth"
	"github.com/dmitrymomot/oauthgate/pkg/secrets"
	"github.com/dmitrymomot/oauthgate/pkg/state"
	"github.com/dmitrymomot/oauthgate/pkg/tokenstore"
	"github.com/dmitrymomot/oauthgate/svc/auth"
)

var errBackend = errors.New("backend down")

const (
	testEmail      = "jane@example.com"
	testName       = "Jane Doe"
	testExternalID = "3f1c8a52-2b7e-4c61-9d0e-6a8f4b1e2c3d"
)

type fixture struct {
	strategy  *mockStrategy
	directory *mockDirectory
	states    *state.MemoryStore
	tokens    *tokenstore.MemoryRepository
	keyring   *secrets.Keyring
	svc       *auth.Service
}

func newKeyring(t *testing.T) *secrets.Keyring {
	t.Helper()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	k, err := secrets.NewKeyring(secrets.KeySet{Current: "k1", Keys: map[string]string{"k1": key}})
	require.NoError(t, err)
	return k
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		strategy:  &mockStrategy{},
		directory: &mockDirectory{},
		states:    state.NewMemoryStore(),
		tokens:    tokenstore.NewMemoryRepository(),
		keyring:   newKeyring(t),
	}
	f.svc = auth.NewService(
		oauth.NewRegistryWith(f.strategy),
		f.states,
		f.tokens,
		f.keyring,
		f.directory,
		auth.WithDirectoryTimeout(time.Second),
	)
	return f
}

// login runs Login and returns the state embedded in the consent URL.
func (f *fixture) login(t *testing.T) string {
	t.Helper()
	consent, err := f.svc.Login(context.Background(), "google")
	require.NoError(t, err)
	u, err := url.Parse(consent)
	require.NoError(t, err)
	st := u.Query().Get("state")
	require.NotEmpty(t, st)
	return st
}

func (f *fixture) expectHappyProvider() {
	f.strategy.On("ExchangeCode", mock.Anything, "code-1").
		Return(&oauth.Token{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresIn: 3600}, nil)
	f.strategy.On("UserInfo", mock.Anything, "access-1").
		Return(&oauth.UserInfo{Subject: "g-1", Email: testEmail, EmailVerified: true, Name: testName}, nil)
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	t.Run("returns consent url with fresh state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		a := f.login(t)
		b := f.login(t)
		assert.NotEqual(t, a, b)
		assert.Equal(t, 2, f.states.Len())
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Login(context.Background(), "myspace")
		require.ErrorIs(t, err, auth.ErrInvalidProvider)
		assert.Zero(t, f.states.Len())
	})

	t.Run("state store failure", func(t *testing.T) {
		t.Parallel()
		svc := auth.NewService(oauth.NewRegistryWith(&mockStrategy{}), failingStates{},
			tokenstore.NewMemoryRepository(), newKeyring(t), &mockDirectory{})

		_, err := svc.Login(context.Background(), "google")
		require.Error(t, err)
		assert.ErrorIs(t, err, errBackend)
	})
}

func TestService_Callback(t *testing.T) {
	t.Parallel()

	t.Run("new user gets token row and session subject", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		st := f.login(t)
		f.expectHappyProvider()
		f.directory.On("GetOrCreateUser", mock.Anything, testEmail, testName).
			Return(&directory.User{ExternalID: testExternalID, Email: testEmail, Name: testName}, nil)

		id, err := f.svc.Callback(context.Background(), "google", "code-1", st)
		require.NoError(t, err)
		assert.Equal(t, auth.Identity{Subject: testExternalID, Email: testEmail}, id)

		stored, err := f.tokens.GetToken(context.Background(), testExternalID, "google")
		require.NoError(t, err)
		assert.NotContains(t, stored.EncryptedSecret, "refresh-1")

		plain, err := f.keyring.Decrypt(stored.EncryptedSecret)
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", plain)

		f.strategy.AssertExpectations(t)
		f.directory.AssertExpectations(t)
	})

	t.Run("returning user updates the single row", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.tokens.CreateToken(context.Background(), testExternalID, "google", "old")
		require.NoError(t, err)

		st := f.login(t)
		f.expectHappyProvider()
		f.directory.On("GetOrCreateUser", mock.Anything, testEmail, testName).
			Return(&directory.User{ExternalID: testExternalID, Email: testEmail}, nil)

		_, err = f.svc.Callback(context.Background(), "google", "code-1", st)
		require.NoError(t, err)

		assert.Equal(t, 1, f.tokens.Len())
		stored, err := f.tokens.GetToken(context.Background(), testExternalID, "google")
		require.NoError(t, err)
		plain, err := f.keyring.Decrypt(stored.EncryptedSecret)
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", plain)
	})

	t.Run("unknown provider fails before touching state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		st := f.login(t)

		_, err := f.svc.Callback(context.Background(), "bogus", "code-1", st)
		require.ErrorIs(t, err, auth.ErrInvalidProvider)

		assert.Equal(t, 1, f.states.Len(), "state must not be consumed")
		f.strategy.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything)
	})

	t.Run("state is single use", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		st := f.login(t)
		f.expectHappyProvider()
		f.directory.On("GetOrCreateUser", mock.Anything, testEmail, testName).
			Return(&directory.User{ExternalID: testExternalID, Email: testEmail}, nil)

		_, err := f.svc.Callback(context.Background(), "google", "code-1", st)
		require.NoError(t, err)

		_, err = f.svc.Callback(context.Background(), "google", "code-1", st)
		require.ErrorIs(t, err, auth.ErrInvalidState)
		f.strategy.AssertNumberOfCalls(t, "ExchangeCode", 1)
	})

	t.Run("unknown state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		for _, st := range []string{"", "never-issued"} {
			_, err := f.svc.Callback(context.Background(), "google", "code-1", st)
			require.ErrorIs(t, err, auth.ErrInvalidState)
		}
		f.strategy.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything)
	})

	t.Run("state minted for another provider", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		st, err := f.states.Generate(context.Background(), "github")
		require.NoError(t, err)

		_, err = f.svc.Callback(context.Background(), "google", "code-1", st)
		require.ErrorIs(t, err, auth.ErrInvalidState)
		assert.Zero(t, f.states.Len(), "mismatched state is still consumed")
	})

	t.Run("state store failure", func(t *testing.T) {
		t.Parallel()
		strategy := &mockStrategy{}
		svc := auth.NewService(oauth.NewRegistryWith(strategy), failingStates{},
			tokenstore.NewMemoryRepository(), newKeyring(t), &mockDirectory{})

		_, err := svc.Callback(context.Background(), "google", "code-1", "st")
		require.ErrorIs(t, err, auth.ErrInvalidState)
		strategy.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything)
	})

	t.Run("exchange failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		st := f.login(t)
		f.strategy.On("ExchangeCode", mock.Anything, "bad-code").
			Return(nil, oauth.ErrExchangeFailed).Once()

		_, err := f.svc.Callback(context.Background(), "google", "bad-code", st)
		require.ErrorIs(t, err, auth.ErrProviderExchangeFailed)

		f.strategy.AssertNumberOfCalls(t, "ExchangeCode", 1)
		f.strategy.AssertNotCalled(t, "UserInfo", mock.Anything, mock.Anything)
		assert.Zero(t, f.tokens.Len())
	})

	t.Run("user info exhausted leaves no token row", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		st := f.login(t)
		f.strategy.On("ExchangeCode", mock.Anything, "code-1").
			Return(&oauth.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil)
		f.strategy.On("UserInfo", mock.Anything, "access-1").
			Return(nil, oauth.ErrUserInfoFailed)

		_, err := f.svc.Callback(context.Background(), "google", "code-1", st)
		require.ErrorIs(t, err, auth.ErrProviderUserInfoFailed)

		assert.Zero(t, f.tokens.Len())
		f.directory.AssertNotCalled(t, "GetOrCreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("directory unavailable", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		st := f.login(t)
		f.expectHappyProvider()
		f.directory.On("GetOrCreateUser", mock.Anything, testEmail, testName).
			Return(nil, directory.ErrUnavailable)

		_, err := f.svc.Callback(context.Background(), "google", "code-1", st)
		require.ErrorIs(t, err, auth.ErrDirectoryUnavailable)
		assert.Zero(t, f.tokens.Len())
	})

	t.Run("directory call is bounded", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		st := f.login(t)
		f.expectHappyProvider()
		f.directory.On("GetOrCreateUser", mock.Anything, testEmail, testName).
			Run(func(args mock.Arguments) {
				ctx := args.Get(0).(context.Context)
				_, ok := ctx.Deadline()
				assert.True(t, ok)
			}).
			Return(&directory.User{}, nil)

		_, err := f.svc.Callback(context.Background(), "google", "code-1", st)
		require.ErrorIs(t, err, auth.ErrDirectoryUnavailable, "empty external id is not a user")
	})

	t.Run("persistence failure", func(t *testing.T) {
		t.Parallel()
		strategy := &mockStrategy{}
		dir := &mockDirectory{}
		repo := &mockRepository{}
		states := state.NewMemoryStore()
		svc := auth.NewService(oauth.NewRegistryWith(strategy), states, repo, newKeyring(t), dir)

		st, err := states.Generate(context.Background(), "google")
		require.NoError(t, err)
		strategy.On("ExchangeCode", mock.Anything, "code-1").
			Return(&oauth.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil)
		strategy.On("UserInfo", mock.Anything, "access-1").
			Return(&oauth.UserInfo{Email: testEmail, Name: testName}, nil)
		dir.On("GetOrCreateUser", mock.Anything, testEmail, testName).
			Return(&directory.User{ExternalID: testExternalID, Email: testEmail}, nil)
		repo.On("GetToken", mock.Anything, testExternalID, "google").
			Return(nil, tokenstore.ErrStorage)

		_, err = svc.Callback(context.Background(), "google", "code-1", st)
		require.ErrorIs(t, err, auth.ErrTokenPersistenceFailed)
		repo.AssertNotCalled(t, "CreateToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("create race falls back to one update", func(t *testing.T) {
		t.Parallel()
		strategy := &mockStrategy{}
		dir := &mockDirectory{}
		repo := &mockRepository{}
		states := state.NewMemoryStore()
		svc := auth.NewService(oauth.NewRegistryWith(strategy), states, repo, newKeyring(t), dir)

		st, err := states.Generate(context.Background(), "google")
		require.NoError(t, err)
		strategy.On("ExchangeCode", mock.Anything, "code-1").
			Return(&oauth.Token{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil)
		strategy.On("UserInfo", mock.Anything, "access-1").
			Return(&oauth.UserInfo{Email: testEmail, Name: testName}, nil)
		dir.On("GetOrCreateUser", mock.Anything, testEmail, testName).
			Return(&directory.User{ExternalID: testExternalID, Email: testEmail}, nil)
		repo.On("GetToken", mock.Anything, testExternalID, "google").
			Return(nil, tokenstore.ErrTokenNotFound)
		repo.On("CreateToken", mock.Anything, testExternalID, "google", mock.AnythingOfType("string")).
			Return(nil, tokenstore.ErrTokenExists)
		repo.On("UpdateToken", mock.Anything, "google", testExternalID, mock.AnythingOfType("string")).
			Return(&tokenstore.StoredToken{}, nil).Once()

		id, err := svc.Callback(context.Background(), "google", "code-1", st)
		require.NoError(t, err)
		assert.Equal(t, testExternalID, id.Subject)
		repo.AssertExpectations(t)
	})
}

func TestService_RefreshAccessToken(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, f *fixture, refresh string) {
		t.Helper()
		enc, err := f.keyring.Encrypt(refresh)
		require.NoError(t, err)
		_, err = f.tokens.CreateToken(context.Background(), testExternalID, "google", enc)
		require.NoError(t, err)
	}

	t.Run("refreshes without rotation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		seed(t, f, "refresh-1")
		before, err := f.tokens.GetToken(context.Background(), testExternalID, "google")
		require.NoError(t, err)

		f.strategy.On("RefreshToken", mock.Anything, "refresh-1").
			Return(&oauth.Token{AccessToken: "access-2", RefreshToken: "refresh-1", ExpiresIn: 3599}, nil)

		tok, err := f.svc.RefreshAccessToken(context.Background(), "google", testExternalID)
		require.NoError(t, err)
		assert.Equal(t, "access-2", tok.AccessToken)

		after, err := f.tokens.GetToken(context.Background(), testExternalID, "google")
		require.NoError(t, err)
		assert.Equal(t, before.EncryptedSecret, after.EncryptedSecret)
	})

	t.Run("stores rotated refresh token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		seed(t, f, "refresh-1")

		f.strategy.On("RefreshToken", mock.Anything, "refresh-1").
			Return(&oauth.Token{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil)

		_, err := f.svc.RefreshAccessToken(context.Background(), "google", testExternalID)
		require.NoError(t, err)

		stored, err := f.tokens.GetToken(context.Background(), testExternalID, "google")
		require.NoError(t, err)
		plain, err := f.keyring.Decrypt(stored.EncryptedSecret)
		require.NoError(t, err)
		assert.Equal(t, "refresh-2", plain)
	})

	t.Run("no stored token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.RefreshAccessToken(context.Background(), "google", testExternalID)
		require.ErrorIs(t, err, auth.ErrNoStoredToken)
	})

	t.Run("provider rejects refresh", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		seed(t, f, "refresh-1")
		f.strategy.On("RefreshToken", mock.Anything, "refresh-1").Return(nil, oauth.ErrRefreshFailed)

		_, err := f.svc.RefreshAccessToken(context.Background(), "google", testExternalID)
		require.ErrorIs(t, err, auth.ErrProviderRefreshFailed)
	})

	t.Run("undecryptable row", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.tokens.CreateToken(context.Background(), testExternalID, "google", "k1:AAAA:BBBB:CCCC")
		require.NoError(t, err)

		_, err = f.svc.RefreshAccessToken(context.Background(), "google", testExternalID)
		require.ErrorIs(t, err, auth.ErrTokenPersistenceFailed)
		f.strategy.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.RefreshAccessToken(context.Background(), "bogus", testExternalID)
		require.ErrorIs(t, err, auth.ErrInvalidProvider)
	})
}
