package snapshot

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaanloyalty/go-asaanauth/pkg/accounts"
	"github.com/asaanloyalty/go-asaanauth/pkg/contacts"
	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"
	"os"
	"path"
	"time"
)

const (
	ContactsSource = "contacts"
	AccountsSource = "accounts"
)

var ErrUnavailable = errors.New("source recorded as unavailable")

// RowRecord is a contacts.Row as stored in a snapshot file
type RowRecord struct {
	Type       string `yaml:"type"`
	Value      string `yaml:"value,omitempty"`
	Primary    bool   `yaml:"primary,omitempty"`
	GivenName  string `yaml:"given_name,omitempty"`
	FamilyName string `yaml:"family_name,omitempty"`
}

/*
Snapshot is a recorded copy of both identity sources of a device, so discovery can be
repeated offline.
Sources listed in Unavailable fail when queried
*/
type Snapshot struct {
	Serial      string             `yaml:"serial,omitempty"`
	CapturedAt  time.Time          `yaml:"captured_at,omitempty"`
	Rows        []RowRecord        `yaml:"rows,omitempty"`
	Accounts    []accounts.Account `yaml:"accounts,omitempty"`
	Telephony   bool               `yaml:"telephony,omitempty"`
	LineNumber  string             `yaml:"line_number,omitempty"`
	Unavailable []string           `yaml:"unavailable,omitempty"`
}

func Load(filepath string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", filepath, err)
	}
	return &snapshot, nil
}

func (snapshot *Snapshot) Save(filepath string) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(path.Dir(filepath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0600)
}

/*
Capture records the rows of the rich source and the accounts of the degraded source.
A failing source is logged and recorded as unavailable
*/
func Capture(ctx context.Context, querier contacts.Querier, src accounts.Source) (*Snapshot, error) {
	snapshot := &Snapshot{CapturedAt: time.Now().UTC()}

	if err := snapshot.captureRows(ctx, querier); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Warn("Could not capture contacts rows")
		snapshot.Rows = nil
		snapshot.Unavailable = append(snapshot.Unavailable, ContactsSource)
	}

	if err := snapshot.captureAccounts(ctx, src); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Warn("Could not capture device accounts")
		snapshot.Accounts, snapshot.Telephony, snapshot.LineNumber = nil, false, ""
		snapshot.Unavailable = append(snapshot.Unavailable, AccountsSource)
	}
	return snapshot, nil
}

func (snapshot *Snapshot) captureRows(ctx context.Context, querier contacts.Querier) error {
	cursor, err := querier.QueryProfileRows(ctx)
	if err != nil {
		return err
	}
	defer cursor.Close()

	for cursor.Next() {
		row := cursor.Row()
		snapshot.Rows = append(snapshot.Rows, RowRecord{
			Type:       row.Type.String(),
			Value:      row.Value,
			Primary:    row.IsPrimary,
			GivenName:  row.GivenName,
			FamilyName: row.FamilyName,
		})
	}
	return cursor.Err()
}

func (snapshot *Snapshot) captureAccounts(ctx context.Context, src accounts.Source) (err error) {
	snapshot.Accounts, err = src.Accounts(ctx)
	if err != nil {
		return err
	}

	snapshot.Telephony, err = src.HasTelephony(ctx)
	if err != nil || !snapshot.Telephony {
		return err
	}

	snapshot.LineNumber, err = src.LineNumber(ctx)
	return err
}

func (snapshot *Snapshot) isUnavailable(source string) bool {
	for _, unavailable := range snapshot.Unavailable {
		if unavailable == source {
			return true
		}
	}
	return false
}

// Contacts replays the recorded rows
func (snapshot *Snapshot) Contacts() contacts.Querier {
	return &contactsQuerier{snapshot: snapshot}
}

// AccountsSource replays the recorded accounts and line number
func (snapshot *Snapshot) AccountsSource() accounts.Source {
	return &accountsSource{snapshot: snapshot}
}

type contactsQuerier struct {
	snapshot *Snapshot
}

func (querier *contactsQuerier) QueryProfileRows(ctx context.Context) (contacts.Cursor, error) {
	if querier.snapshot.isUnavailable(ContactsSource) {
		return nil, ErrUnavailable
	}

	rows := make([]contacts.Row, 0, len(querier.snapshot.Rows))
	for _, record := range querier.snapshot.Rows {
		fieldType, err := contacts.ParseFieldTypeName(record.Type)
		if err != nil {
			return nil, err
		}
		rows = append(rows, contacts.Row{
			Type:       fieldType,
			Value:      record.Value,
			IsPrimary:  record.Primary,
			GivenName:  record.GivenName,
			FamilyName: record.FamilyName,
		})
	}
	return contacts.NewSliceCursor(rows), nil
}

type accountsSource struct {
	snapshot *Snapshot
}

func (src *accountsSource) Accounts(ctx context.Context) ([]accounts.Account, error) {
	if src.snapshot.isUnavailable(AccountsSource) {
		return nil, ErrUnavailable
	}
	return src.snapshot.Accounts, nil
}

func (src *accountsSource) HasTelephony(ctx context.Context) (bool, error) {
	if src.snapshot.isUnavailable(AccountsSource) {
		return false, ErrUnavailable
	}
	return src.snapshot.Telephony, nil
}

func (src *accountsSource) LineNumber(ctx context.Context) (string, error) {
	if src.snapshot.isUnavailable(AccountsSource) {
		return "", ErrUnavailable
	}
	return src.snapshot.LineNumber, nil
}
