package contacts

import (
	"context"
	"github.com/asaanloyalty/go-asaanauth/pkg/profile"
	log "github.com/sirupsen/logrus"
)

/*
Row is a single data row of the device owner's profile contact.
Structured name rows carry GivenName and FamilyName instead of Value
*/
type Row struct {
	Type       FieldType
	Value      string
	IsPrimary  bool
	GivenName  string
	FamilyName string
}

/*
Cursor iterates over profile rows once. Close must be called when done,
also when Err returns an error
*/
type Cursor interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

// Querier opens a cursor over the profile rows, primary rows first
type Querier interface {
	QueryProfileRows(ctx context.Context) (Cursor, error)
}

// Apply maps one row to the matching profile field
func Apply(p *profile.Profile, row Row) {
	switch row.Type {
	case Email:
		p.AddEmail(row.Value, row.IsPrimary)
	case StructuredName:
		if row.GivenName != "" && row.FamilyName != "" {
			p.AddName(row.GivenName + " " + row.FamilyName)
		}
	case Phone:
		p.AddPhoneNumber(row.Value, row.IsPrimary)
	case Photo:
		p.SetPhoto(row.Value)
	}
}

/*
ReadProfile builds a profile from the rows of the querier.
The cursor is closed before returning on every path
*/
func ReadProfile(ctx context.Context, querier Querier) (p *profile.Profile, err error) {
	cursor, err := querier.QueryProfileRows(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		closeErr := cursor.Close()
		if err == nil && closeErr != nil {
			p, err = nil, closeErr
		}
	}()

	p = profile.New()
	rows := 0
	for cursor.Next() {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		Apply(p, cursor.Row())
		rows++
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	log.Debugf("Read %d profile rows", rows)
	return p, nil
}

// SliceCursor is a Cursor over rows already in memory
type SliceCursor struct {
	rows   []Row
	pos    int
	closed bool
}

func NewSliceCursor(rows []Row) *SliceCursor {
	return &SliceCursor{rows: rows, pos: -1}
}

func (cursor *SliceCursor) Next() bool {
	if cursor.closed || cursor.pos+1 >= len(cursor.rows) {
		return false
	}
	cursor.pos++
	return true
}

func (cursor *SliceCursor) Row() Row {
	return cursor.rows[cursor.pos]
}

func (cursor *SliceCursor) Err() error {
	return nil
}

func (cursor *SliceCursor) Close() error {
	cursor.closed = true
	return nil
}

func (cursor *SliceCursor) Closed() bool {
	return cursor.closed
}
