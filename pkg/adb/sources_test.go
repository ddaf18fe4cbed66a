package adb

import (
	"context"
	"errors"
	"github.com/asaanloyalty/go-asaanauth/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

type fakeShell struct {
	outputs  map[string]string
	failures map[string]error
	calls    []string
}

func (shell *fakeShell) RunCommand(cmd string, args ...string) (string, error) {
	line := strings.TrimSpace(cmd + " " + strings.Join(args, " "))
	shell.calls = append(shell.calls, line)

	if err := shell.failures[cmd]; err != nil {
		return "", err
	}
	return shell.outputs[cmd], nil
}

func createTestClient(shell *fakeShell) *Client {
	return &Client{
		shell: shell,
		config: Config{
			LineNumberService: DefaultLineNumberService,
			LineNumberCode:    DefaultLineNumberCode,
		},
	}
}

const (
	noEmailRows = `Row: 0 mimetype=vnd.android.cursor.item/name, data1=Jo Doe, data2=Jo, data3=Doe, is_primary=0, photo_uri=NULL
`
	emailRows = `Row: 0 mimetype=vnd.android.cursor.item/email_v2, data1=b@x.com, data2=1, data3=NULL, is_primary=1, photo_uri=NULL
Row: 1 mimetype=vnd.android.cursor.item/name, data1=Jo Doe, data2=Jo, data3=Doe, is_primary=0, photo_uri=NULL
Row: 2 mimetype=vnd.android.cursor.item/email_v2, data1=a@x.com, data2=1, data3=NULL, is_primary=0, photo_uri=NULL
`
	accountsDump = `Accounts: 1
    Account {name=c@x.com, type=com.google}
`
	features   = "feature:android.hardware.telephony\nfeature:android.hardware.wifi\n"
	lineParcel = `Result: Parcel(
  0x00000000: 00000000 00000008 00350035 002d0035 '........5.5.5.-.'
  0x00000010: 00320031 00340033 00000000          '1.2.3.4.....    ')`
)

func TestDiscoverFromDeviceContacts(t *testing.T) {
	shell := &fakeShell{outputs: map[string]string{"content": emailRows}}
	client := createTestClient(shell)

	result := discovery.Discover(context.Background(), client.Contacts(), client.Accounts())
	require.NotNil(t, result)

	email, _ := result.Profile.BestEmail()
	name, _ := result.Profile.BestName()
	assert.Equal(t, discovery.ContactsSource, result.Source)
	assert.Equal(t, "b@x.com", email)
	assert.Equal(t, "Jo Doe", name)
	assert.Len(t, shell.calls, 1)
	assert.True(t, strings.HasPrefix(shell.calls[0], "content query --uri content://com.android.contacts/profile/data"))
}

func TestDiscoverFromDeviceAccounts(t *testing.T) {
	shell := &fakeShell{outputs: map[string]string{
		"content": noEmailRows,
		"dumpsys": accountsDump,
		"pm":      features,
		"service": lineParcel,
	}}
	client := createTestClient(shell)

	result := discovery.Discover(context.Background(), client.Contacts(), client.Accounts())
	require.NotNil(t, result)

	email, _ := result.Profile.BestEmail()
	phone, _ := result.Profile.BestPhoneNumber()
	assert.Equal(t, discovery.AccountsSource, result.Source)
	assert.Equal(t, "c@x.com", email)
	assert.Equal(t, "555-1234", phone)
	assert.Contains(t, shell.calls, "service call iphonesubinfo 15")
}

func TestDiscoverDeviceOffline(t *testing.T) {
	offline := errors.New("device offline")
	shell := &fakeShell{failures: map[string]error{
		"content": offline,
		"dumpsys": offline,
	}}
	client := createTestClient(shell)

	assert.Nil(t, discovery.Discover(context.Background(), client.Contacts(), client.Accounts()))
}

func TestHasTelephony(t *testing.T) {
	client := createTestClient(&fakeShell{outputs: map[string]string{"pm": "feature:android.hardware.wifi\n"}})

	hasTelephony, err := client.Accounts().HasTelephony(context.Background())
	require.NoError(t, err)
	assert.False(t, hasTelephony)
}

func TestRunCanceled(t *testing.T) {
	shell := &fakeShell{}
	client := createTestClient(shell)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Contacts().QueryProfileRows(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, shell.calls)
}

func TestDeviceInfo(t *testing.T) {
	client := createTestClient(&fakeShell{outputs: map[string]string{
		"getprop": "[ro.serialno]: [abc123]\n",
		"pm":      features,
	}})

	info, err := client.DeviceInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", info.Serial())
	assert.True(t, info.HasTelephony())
}
