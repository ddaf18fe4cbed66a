package discovery

import (
	"context"
	"errors"
	"github.com/asaanloyalty/go-asaanauth/pkg/accounts"
	"github.com/asaanloyalty/go-asaanauth/pkg/contacts"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type richSource struct {
	rows   []contacts.Row
	err    error
	cursor *contacts.SliceCursor
}

func (src *richSource) QueryProfileRows(ctx context.Context) (contacts.Cursor, error) {
	if src.err != nil {
		return nil, src.err
	}
	src.cursor = contacts.NewSliceCursor(src.rows)
	return src.cursor, nil
}

type degradedSource struct {
	accounts   []accounts.Account
	lineNumber string
	err        error
	queried    bool
}

func (src *degradedSource) Accounts(ctx context.Context) ([]accounts.Account, error) {
	src.queried = true
	return src.accounts, src.err
}

func (src *degradedSource) HasTelephony(ctx context.Context) (bool, error) {
	return src.lineNumber != "", nil
}

func (src *degradedSource) LineNumber(ctx context.Context) (string, error) {
	return src.lineNumber, nil
}

func TestDiscoverFromContacts(t *testing.T) {
	rich := &richSource{rows: []contacts.Row{
		{Type: contacts.Email, Value: "a@x.com"},
		{Type: contacts.Email, Value: "b@x.com", IsPrimary: true},
		{Type: contacts.StructuredName, GivenName: "Jo", FamilyName: "Doe"},
	}}
	degraded := &degradedSource{accounts: []accounts.Account{{Name: "c@x.com", Type: accounts.GoogleAccountType}}}

	result := Discover(context.Background(), rich, degraded)
	require.NotNil(t, result)

	email, _ := result.Profile.BestEmail()
	name, _ := result.Profile.BestName()
	assert.Equal(t, ContactsSource, result.Source)
	assert.Equal(t, "b@x.com", email)
	assert.Equal(t, "Jo Doe", name)
	assert.False(t, degraded.queried)
	assert.True(t, rich.cursor.Closed())
	assert.False(t, result.DiscoveredAt.IsZero())
}

func TestDiscoverFallsBackWithoutEmail(t *testing.T) {
	rich := &richSource{rows: []contacts.Row{
		{Type: contacts.StructuredName, GivenName: "Jo", FamilyName: "Doe"},
		{Type: contacts.Phone, Value: "555-0000", IsPrimary: true},
	}}
	degraded := &degradedSource{
		accounts:   []accounts.Account{{Name: "c@x.com", Type: accounts.GoogleAccountType}},
		lineNumber: "555-1234",
	}

	result := Discover(context.Background(), rich, degraded)
	require.NotNil(t, result)

	email, _ := result.Profile.BestEmail()
	phone, _ := result.Profile.BestPhoneNumber()
	assert.Equal(t, AccountsSource, result.Source)
	assert.Equal(t, "c@x.com", email)
	assert.Equal(t, "555-1234", phone)

	// profiles of the two sources are not merged
	_, ok := result.Profile.BestName()
	assert.False(t, ok)
}

func TestDiscoverFallsBackWhenContactsFail(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	rich := &richSource{err: errors.New("permission denied")}
	degraded := &degradedSource{accounts: []accounts.Account{{Name: "c@x.com", Type: accounts.GoogleAccountType}}}

	result := Discover(context.Background(), rich, degraded)
	require.NotNil(t, result)
	assert.Equal(t, AccountsSource, result.Source)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	err, ok := hook.LastEntry().Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	var sourceErr *SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, ContactsSource, sourceErr.Source)
}

func TestDiscoverBothSourcesFail(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	rich := &richSource{err: errors.New("permission denied")}
	degraded := &degradedSource{err: errors.New("dumpsys failed")}

	assert.Nil(t, Discover(context.Background(), rich, degraded))

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestDiscoverEmptyDegradedProfile(t *testing.T) {
	result := Discover(context.Background(), &richSource{}, &degradedSource{})
	require.NotNil(t, result)
	assert.Equal(t, AccountsSource, result.Source)
	assert.True(t, result.Profile.IsEmpty())
}

func TestDiscoverWithoutDegradedSource(t *testing.T) {
	rich := &richSource{rows: []contacts.Row{{Type: contacts.Phone, Value: "555-0000"}}}

	result := Discover(context.Background(), rich, nil)
	require.NotNil(t, result)
	assert.Equal(t, ContactsSource, result.Source)

	assert.Nil(t, Discover(context.Background(), &richSource{err: errors.New("boom")}, nil))
	assert.Nil(t, Discover(context.Background(), nil, nil))
}

func TestSourceError(t *testing.T) {
	cause := errors.New("adb not running")
	err := error(&SourceError{Source: AccountsSource, Err: cause})

	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "accounts source unavailable: adb not running", err.Error())
}
