package accounts

import (
	"context"
	"github.com/asaanloyalty/go-asaanauth/pkg/profile"
	log "github.com/sirupsen/logrus"
	"regexp"
)

const GoogleAccountType = "com.google"

// Same pattern as android.util.Patterns.EMAIL_ADDRESS
var emailAddressRegex = regexp.MustCompile(
	`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)

type Account struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

/*
Source is the degraded identity source: the accounts registered on the device and
the phone number of the device's line, if it has one
*/
type Source interface {
	Accounts(ctx context.Context) ([]Account, error)
	HasTelephony(ctx context.Context) (bool, error)
	LineNumber(ctx context.Context) (string, error)
}

func IsEmailAddress(value string) bool {
	return emailAddressRegex.MatchString(value)
}

/*
ReadProfile builds a profile from the Google accounts of the device and its line number.
Every value found this way is treated as primary
*/
func ReadProfile(ctx context.Context, src Source) (*profile.Profile, error) {
	accounts, err := src.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	p := profile.New()
	for _, account := range accounts {
		if account.Type != GoogleAccountType {
			continue
		}
		if IsEmailAddress(account.Name) {
			p.AddEmail(account.Name, true)
		}
	}

	hasTelephony, err := src.HasTelephony(ctx)
	if err != nil {
		return nil, err
	}

	if hasTelephony {
		lineNumber, err := src.LineNumber(ctx)
		if err != nil {
			return nil, err
		}
		p.AddPhoneNumber(lineNumber, true)
	} else {
		log.Debug("Device has no telephony feature, skip line number")
	}
	return p, nil
}
