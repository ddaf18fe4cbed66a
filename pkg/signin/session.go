package signin

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaanloyalty/go-asaanauth/pkg/keyring"
	"github.com/asaanloyalty/go-asaanauth/pkg/profile"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"sort"
)

/*
Session signs the user in with one of its providers and keeps the provider
tokens in the keyring between runs
*/
type Session struct {
	providers  map[string]Provider
	authorizer Authorizer
}

func CreateSession(authorizer Authorizer, providers ...Provider) *Session {
	session := &Session{
		providers:  map[string]Provider{},
		authorizer: authorizer,
	}
	for _, provider := range providers {
		session.providers[provider.Name()] = provider
	}
	return session
}

func (session *Session) Provider(name string) (Provider, error) {
	provider, has := session.providers[name]
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return provider, nil
}

func (session *Session) ProviderNames() []string {
	names := make([]string, 0, len(session.providers))
	for name := range session.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

/*
Login returns the profile of the user signed in with the named provider.
The stored token is reused unless forceLogin is set or it cannot be used anymore
*/
func (session *Session) Login(ctx context.Context, name string, forceLogin bool) (*profile.Profile, error) {
	provider, err := session.Provider(name)
	if err != nil {
		return nil, err
	}
	logger := log.WithField("provider", name)

	var token *oauth2.Token
	stored := false
	if !forceLogin {
		token = storedToken(provider)
		stored = token != nil
	}

	if token == nil {
		logger.Debug("No usable stored token, authorize")

		token, err = session.authorizer.Authorize(ctx, provider.OAuthConfig())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrAuthenticationFailed, name, err)
		}
	} else {
		logger.Debug("Use stored token. To force authorization, use --force-login flag")
	}

	// Refreshes an expired token that has a refresh token
	token, err = provider.OAuthConfig().TokenSource(ctx, token).Token()
	if err != nil {
		if stored {
			session.forget(provider)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrAuthenticationFailed, name, err)
	}

	p, err := provider.FetchProfile(ctx, token)
	if err != nil {
		if stored {
			session.forget(provider)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrAuthenticationFailed, name, err)
	}

	if err := keyring.SaveOAuthToken(provider.TokenType(), token); err != nil {
		logger.WithError(err).Warn("Could not save token to the keyring")
	}
	return p, nil
}

// Logoff removes the stored tokens of every provider
func (session *Session) Logoff() error {
	var errs []error
	for _, name := range session.ProviderNames() {
		if err := keyring.DeleteToken(session.providers[name].TokenType()); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		log.WithField("provider", name).Debug("Token removed")
	}
	return errors.Join(errs...)
}

func storedToken(provider Provider) *oauth2.Token {
	token, err := keyring.GetOAuthToken(provider.TokenType())
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.WithError(err).Warnf("Could not read %s token from the keyring", provider.Name())
		}
		return nil
	}

	if !token.Valid() && token.RefreshToken == "" {
		return nil
	}
	return token
}

func (session *Session) forget(provider Provider) {
	if err := keyring.DeleteToken(provider.TokenType()); err != nil {
		log.WithError(err).Warnf("Could not remove %s token", provider.Name())
	}
}
