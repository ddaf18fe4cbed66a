package snapshot

import (
	"context"
	"errors"
	"github.com/asaanloyalty/go-asaanauth/pkg/accounts"
	"github.com/asaanloyalty/go-asaanauth/pkg/contacts"
	"github.com/asaanloyalty/go-asaanauth/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "device.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))
	return file
}

func TestDiscoverRichSnapshot(t *testing.T) {
	file := writeSnapshot(t, `serial: abc123
rows:
  - type: email
    value: a@x.com
  - type: email
    value: b@x.com
    primary: true
  - type: structured-name
    given_name: Jo
    family_name: Doe
accounts:
  - name: c@x.com
    type: com.google
`)

	snapshot, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "abc123", snapshot.Serial)

	result := discovery.Discover(context.Background(), snapshot.Contacts(), snapshot.AccountsSource())
	require.NotNil(t, result)

	assert.Equal(t, discovery.ContactsSource, result.Source)
	assert.Equal(t, "b@x.com", result.Profile.Summary().Email)
	assert.Equal(t, "Jo Doe", result.Profile.Summary().Name)
}

func TestDiscoverDegradedSnapshot(t *testing.T) {
	file := writeSnapshot(t, `rows:
  - type: phone
    value: 555-0000
accounts:
  - name: c@x.com
    type: com.google
telephony: true
line_number: 555-1234
`)

	snapshot, err := Load(file)
	require.NoError(t, err)

	result := discovery.Discover(context.Background(), snapshot.Contacts(), snapshot.AccountsSource())
	require.NotNil(t, result)

	assert.Equal(t, discovery.AccountsSource, result.Source)
	assert.Equal(t, "c@x.com", result.Profile.Summary().Email)
	assert.Equal(t, "555-1234", result.Profile.Summary().PhoneNumber)
}

func TestDiscoverUnavailableSnapshot(t *testing.T) {
	file := writeSnapshot(t, `unavailable: [contacts, accounts]
`)

	snapshot, err := Load(file)
	require.NoError(t, err)

	assert.Nil(t, discovery.Discover(context.Background(), snapshot.Contacts(), snapshot.AccountsSource()))
}

func TestUnknownRowType(t *testing.T) {
	snapshot := &Snapshot{Rows: []RowRecord{{Type: "organization", Value: "Asaan"}}}

	_, err := snapshot.Contacts().QueryProfileRows(context.Background())
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load(writeSnapshot(t, "rows: [unclosed"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type failingQuerier struct{}

func (failingQuerier) QueryProfileRows(ctx context.Context) (contacts.Cursor, error) {
	return nil, errors.New("permission denial")
}

type deviceAccounts struct{}

func (deviceAccounts) Accounts(ctx context.Context) ([]accounts.Account, error) {
	return []accounts.Account{{Name: "c@x.com", Type: accounts.GoogleAccountType}}, nil
}

func (deviceAccounts) HasTelephony(ctx context.Context) (bool, error) {
	return true, nil
}

func (deviceAccounts) LineNumber(ctx context.Context) (string, error) {
	return "555-1234", nil
}

func TestCaptureAndSave(t *testing.T) {
	snapshot, err := Capture(context.Background(), failingQuerier{}, deviceAccounts{})
	require.NoError(t, err)

	assert.Equal(t, []string{ContactsSource}, snapshot.Unavailable)
	assert.True(t, snapshot.Telephony)
	assert.Equal(t, "555-1234", snapshot.LineNumber)
	assert.False(t, snapshot.CapturedAt.IsZero())

	file := filepath.Join(t.TempDir(), "snapshots", "device.yaml")
	require.NoError(t, snapshot.Save(file))

	loaded, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Accounts, loaded.Accounts)
	assert.Equal(t, snapshot.Unavailable, loaded.Unavailable)

	result := discovery.Discover(context.Background(), loaded.Contacts(), loaded.AccountsSource())
	require.NotNil(t, result)
	assert.Equal(t, discovery.AccountsSource, result.Source)
}

func TestCaptureRows(t *testing.T) {
	rows := &Snapshot{Rows: []RowRecord{
		{Type: "email", Value: "b@x.com", Primary: true},
		{Type: "photo", Value: "content://com.android.contacts/display_photo/1"},
	}}

	snapshot, err := Capture(context.Background(), rows.Contacts(), deviceAccounts{})
	require.NoError(t, err)

	assert.Empty(t, snapshot.Unavailable)
	assert.Equal(t, rows.Rows, snapshot.Rows)
}

func TestCaptureCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Capture(ctx, failingQuerier{}, deviceAccounts{})
	assert.ErrorIs(t, err, context.Canceled)
}
