package signin

import (
	"context"
	"fmt"
	"github.com/asaanloyalty/go-asaanauth/pkg/keyring"
	"github.com/asaanloyalty/go-asaanauth/pkg/profile"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

const googlePersonFields = "names,emailAddresses,phoneNumbers,photos"

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Overrides the People API base URL
	Endpoint string
}

type GoogleProvider struct {
	oauthConfig *oauth2.Config
	endpoint    string
}

func CreateGoogleProvider(config GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				people.UserinfoEmailScope,
				people.UserinfoProfileScope,
				people.UserPhonenumbersReadScope,
			},
		},
		endpoint: config.Endpoint,
	}
}

func (provider *GoogleProvider) Name() string {
	return GoogleProviderName
}

func (provider *GoogleProvider) TokenType() keyring.TokenType {
	return keyring.GoogleToken
}

func (provider *GoogleProvider) OAuthConfig() *oauth2.Config {
	return provider.oauthConfig
}

// FetchProfile reads people/me. Values the account marks as primary are added as primary
func (provider *GoogleProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*profile.Profile, error) {
	opts := []option.ClientOption{
		option.WithHTTPClient(provider.oauthConfig.Client(ctx, token)),
	}
	if provider.endpoint != "" {
		opts = append(opts, option.WithEndpoint(provider.endpoint))
	}

	service, err := people.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create people service: %w", err)
	}

	person, err := service.People.Get("people/me").
		PersonFields(googlePersonFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get people/me: %w", err)
	}
	return personToProfile(person), nil
}

func personToProfile(person *people.Person) *profile.Profile {
	p := profile.New()

	for _, email := range person.EmailAddresses {
		p.AddEmail(email.Value, isPrimary(email.Metadata))
	}
	for _, name := range person.Names {
		p.AddName(name.DisplayName)
	}
	for _, phone := range person.PhoneNumbers {
		p.AddPhoneNumber(phone.Value, isPrimary(phone.Metadata))
	}

	// Default photos are generated placeholders
	photo := ""
	for _, candidate := range person.Photos {
		if candidate.Default || candidate.Url == "" {
			continue
		}
		if photo == "" || isPrimary(candidate.Metadata) {
			photo = candidate.Url
		}
	}
	p.SetPhoto(photo)
	return p
}

func isPrimary(metadata *people.FieldMetadata) bool {
	return metadata != nil && metadata.Primary
}
