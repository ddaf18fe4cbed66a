package discovery

import (
	"context"
	"github.com/asaanloyalty/go-asaanauth/pkg/accounts"
	"github.com/asaanloyalty/go-asaanauth/pkg/contacts"
	"github.com/asaanloyalty/go-asaanauth/pkg/profile"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"time"
)

type SourceKind string

const (
	// Profile contact rows of the device owner
	ContactsSource SourceKind = "contacts"
	// Device accounts and line number
	AccountsSource SourceKind = "accounts"
)

// Result is the profile found by one discovery pass and the source it came from
type Result struct {
	ID           uuid.UUID
	Source       SourceKind
	Profile      *profile.Profile
	DiscoveredAt time.Time
}

/*
Discover finds the identity of the device owner.

The contact rows are scanned first. When that fails or yields no email address, a new profile is
built from the device accounts instead; the two are never merged. Source failures are logged and
never returned. Returns nil when no source could be queried.
*/
func Discover(ctx context.Context, rich contacts.Querier, degraded accounts.Source) *Result {
	id := uuid.New()
	logger := log.WithField("discovery", id.String())

	var richProfile *profile.Profile
	if rich != nil {
		p, err := readSource(ContactsSource, func() (*profile.Profile, error) {
			return contacts.ReadProfile(ctx, rich)
		})
		if err != nil {
			logger.WithError(err).Warn("Could not read profile from contacts")
		} else if _, ok := p.BestEmail(); ok {
			return newResult(id, ContactsSource, p)
		} else {
			logger.Debug("Contacts profile has no email address, fall back to device accounts")
			richProfile = p
		}
	}

	if degraded == nil {
		// Nothing to fall back to
		if richProfile != nil {
			return newResult(id, ContactsSource, richProfile)
		}
		return nil
	}

	p, err := readSource(AccountsSource, func() (*profile.Profile, error) {
		return accounts.ReadProfile(ctx, degraded)
	})
	if err != nil {
		logger.WithError(err).Warn("Could not read profile from device accounts")
		return nil
	}
	return newResult(id, AccountsSource, p)
}

func readSource(kind SourceKind, read func() (*profile.Profile, error)) (*profile.Profile, error) {
	p, err := read()
	if err == nil && p == nil {
		err = errNoProfile
	}
	if err != nil {
		return nil, &SourceError{Source: kind, Err: err}
	}
	return p, nil
}

func newResult(id uuid.UUID, kind SourceKind, p *profile.Profile) *Result {
	return &Result{
		ID:           id,
		Source:       kind,
		Profile:      p,
		DiscoveredAt: time.Now().UTC(),
	}
}
