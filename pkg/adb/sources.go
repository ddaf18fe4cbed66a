package adb

import (
	"context"
	"github.com/asaanloyalty/go-asaanauth/pkg/accounts"
	"github.com/asaanloyalty/go-asaanauth/pkg/contacts"
	"github.com/asaanloyalty/go-asaanauth/pkg/device"
	"strconv"
	"strings"
)

// Contacts queries the profile contact of the selected device with "content query"
func (client *Client) Contacts() contacts.Querier {
	return &contactsQuerier{client: client}
}

// Accounts reads the accounts and the line number of the selected device
func (client *Client) Accounts() accounts.Source {
	return &accountsSource{client: client}
}

type contactsQuerier struct {
	client *Client
}

func (querier *contactsQuerier) QueryProfileRows(ctx context.Context) (contacts.Cursor, error) {
	output, err := querier.client.run(ctx, "content", contacts.QueryArgs()...)
	if err != nil {
		return nil, err
	}
	return contacts.NewOutputCursor(strings.NewReader(output)), nil
}

type accountsSource struct {
	client *Client
}

func (src *accountsSource) Accounts(ctx context.Context) ([]accounts.Account, error) {
	output, err := src.client.run(ctx, "dumpsys", "account")
	if err != nil {
		return nil, err
	}
	return accounts.ParseDumpsys(strings.NewReader(output))
}

func (src *accountsSource) HasTelephony(ctx context.Context) (bool, error) {
	output, err := src.client.run(ctx, "pm", "list", "features")
	if err != nil {
		return false, err
	}

	for _, feature := range device.ParseFeatures(output) {
		if feature == device.FeatureTelephony {
			return true, nil
		}
	}
	return false, nil
}

func (src *accountsSource) LineNumber(ctx context.Context) (string, error) {
	config := src.client.config

	output, err := src.client.run(ctx, "service", "call", config.LineNumberService,
		strconv.Itoa(config.LineNumberCode))
	if err != nil {
		return "", err
	}
	return accounts.ParseParcelString(output)
}
