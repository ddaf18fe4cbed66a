package signin

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/asaanloyalty/go-asaanauth/pkg/keyring"
	"github.com/asaanloyalty/go-asaanauth/pkg/profile"
	"github.com/gojektech/heimdall/v6/hystrix"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultGraphURL = "https://graph.facebook.com"
	// Formatted with the user id
	DefaultPhotoURL = "http://graph.facebook.com/%s/picture?type=small"
)

type FacebookConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	GraphURL     string
	PhotoURL     string
}

type FacebookProvider struct {
	oauthConfig *oauth2.Config
	graphURL    string
	photoURL    string
	httpClient  *hystrix.Client
}

type graphUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func CreateFacebookProvider(config FacebookConfig) *FacebookProvider {
	if config.GraphURL == "" {
		config.GraphURL = DefaultGraphURL
	}
	if config.PhotoURL == "" {
		config.PhotoURL = DefaultPhotoURL
	}

	return &FacebookProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint:     facebook.Endpoint,
			Scopes:       []string{"public_profile", "email"},
		},
		graphURL:   config.GraphURL,
		photoURL:   config.PhotoURL,
		httpClient: createHTTPClient(),
	}
}

func createHTTPClient() *hystrix.Client {
	return hystrix.NewClient(
		hystrix.WithCommandName("facebook-graph"),
		hystrix.WithHTTPTimeout(5*time.Second),
		hystrix.WithMaxConcurrentRequests(10),
		hystrix.WithErrorPercentThreshold(20),
		hystrix.WithRetryCount(3),
	)
}

func (provider *FacebookProvider) Name() string {
	return FacebookProviderName
}

func (provider *FacebookProvider) TokenType() keyring.TokenType {
	return keyring.FacebookToken
}

func (provider *FacebookProvider) OAuthConfig() *oauth2.Config {
	return provider.oauthConfig
}

/*
FetchProfile reads /me from the Graph API.
The only email Facebook exposes is added as primary, the photo reference is the small profile picture
*/
func (provider *FacebookProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*profile.Profile, error) {
	user, err := provider.getMe(ctx, token)
	if err != nil {
		return nil, err
	}

	p := profile.New()
	p.AddEmail(user.Email, true)
	p.AddName(user.Name)
	if user.ID != "" {
		p.SetPhoto(fmt.Sprintf(provider.photoURL, url.PathEscape(user.ID)))
	}
	return p, nil
}

func (provider *FacebookProvider) getMe(ctx context.Context, token *oauth2.Token) (*graphUser, error) {
	params := url.Values{}
	params.Set("fields", "id,name,email")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		provider.graphURL+"/me?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	res, err := provider.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		var graphErr graphError
		if json.Unmarshal(body, &graphErr) == nil && graphErr.Error.Message != "" {
			return nil, fmt.Errorf("graph api returned %d: %s", res.StatusCode, graphErr.Error.Message)
		}
		return nil, fmt.Errorf("graph api returned %d", res.StatusCode)
	}

	var user graphUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("parse graph user: %w", err)
	}
	return &user, nil
}
