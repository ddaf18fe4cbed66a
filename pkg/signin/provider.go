package signin

import (
	"context"
	"github.com/asaanloyalty/go-asaanauth/pkg/keyring"
	"github.com/asaanloyalty/go-asaanauth/pkg/profile"
	"golang.org/x/oauth2"
)

const (
	GoogleProviderName   = "google"
	FacebookProviderName = "facebook"
)

/*
Provider is an identity provider the user can sign in with.
FetchProfile reads the signed in user's identity with an authorized token
*/
type Provider interface {
	Name() string
	TokenType() keyring.TokenType
	OAuthConfig() *oauth2.Config
	FetchProfile(ctx context.Context, token *oauth2.Token) (*profile.Profile, error)
}
