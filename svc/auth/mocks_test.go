package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
	"github.com/dmitrymomot/oauthgate/pkg/oauth"
	"github.com/dmitrymomot/oauthgate/pkg/tokenstore"
)

type mockStrategy struct {
	mock.Mock
}

func (m *mockStrategy) Provider() oauth.Provider {
	return oauth.ProviderGoogle
}

func (m *mockStrategy) AuthorizationURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (m *mockStrategy) ExchangeCode(ctx context.Context, code string) (*oauth.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Token), args.Error(1)
}

func (m *mockStrategy) UserInfo(ctx context.Context, accessToken string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *mockStrategy) RefreshToken(ctx context.Context, refreshToken string) (*oauth.Token, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Token), args.Error(1)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) GetOrCreateUser(ctx context.Context, email, name string) (*directory.User, error) {
	args := m.Called(ctx, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.User), args.Error(1)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetToken(ctx context.Context, owner, provider string) (*tokenstore.StoredToken, error) {
	args := m.Called(ctx, owner, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenstore.StoredToken), args.Error(1)
}

func (m *mockRepository) CreateToken(ctx context.Context, owner, provider, encryptedSecret string) (*tokenstore.StoredToken, error) {
	args := m.Called(ctx, owner, provider, encryptedSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenstore.StoredToken), args.Error(1)
}

func (m *mockRepository) UpdateToken(ctx context.Context, provider, owner, encryptedSecret string) (*tokenstore.StoredToken, error) {
	args := m.Called(ctx, provider, owner, encryptedSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenstore.StoredToken), args.Error(1)
}

// failingStates is a state store whose backend is down.
type failingStates struct{}

func (failingStates) Generate(context.Context, string) (string, error) {
	return "", errBackend
}

func (failingStates) Consume(context.Context, string) (string, bool, error) {
	return "", false, errBackend
}
