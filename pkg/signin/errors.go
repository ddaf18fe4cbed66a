package signin

import "errors"

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnknownProvider      = errors.New("unknown sign-in provider")
)
