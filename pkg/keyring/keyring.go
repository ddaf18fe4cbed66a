package keyring

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

const Service = "go-asaanauth"

var ErrNotFound = keyring.ErrNotFound

type TokenType string

const (
	GoogleToken   TokenType = "google-token"
	FacebookToken TokenType = "facebook-token"
)

func SaveToken(tokenType TokenType, token string) error {
	return keyring.Set(Service, string(tokenType), token)
}

func GetToken(tokenType TokenType) (string, error) {
	return keyring.Get(Service, string(tokenType))
}

// DeleteToken removes the token, a missing token is not an error
func DeleteToken(tokenType TokenType) error {
	err := keyring.Delete(Service, string(tokenType))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

/**
Save the OAuth token of a provider as JSON, including the refresh token and expiry
*/
func SaveOAuthToken(tokenType TokenType, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return SaveToken(tokenType, string(data))
}

func GetOAuthToken(tokenType TokenType) (*oauth2.Token, error) {
	data, err := GetToken(tokenType)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, fmt.Errorf("stored %s is not a valid token: %w", tokenType, err)
	}
	return &token, nil
}
