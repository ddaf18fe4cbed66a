package contacts

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	ProfileDataURI = "content://com.android.contacts/profile/data"
	SortOrder      = "is_primary DESC"

	ColumnMimeType  = "mimetype"
	ColumnData1     = "data1" // email address, phone number
	ColumnData2     = "data2" // given name
	ColumnData3     = "data3" // family name
	ColumnIsPrimary = "is_primary"
	ColumnPhotoURI  = "photo_uri"

	nullValue = "NULL"
)

// Projection is the column order of every row printed by "content query"
var Projection = []string{ColumnMimeType, ColumnData1, ColumnData2, ColumnData3, ColumnIsPrimary, ColumnPhotoURI}

/*
QueryArgs returns the arguments of the "content" shell command that lists the profile
rows of the known field types, primary rows first
*/
func QueryArgs() []string {
	mimeTypes := make([]string, 0, len(FieldTypes))
	for _, fieldType := range FieldTypes {
		mimeTypes = append(mimeTypes, fmt.Sprintf("'%s'", fieldType.MimeType()))
	}

	return []string{
		"query",
		"--uri", ProfileDataURI,
		"--projection", strings.Join(Projection, ":"),
		"--where", fmt.Sprintf("%s IN (%s)", ColumnMimeType, strings.Join(mimeTypes, ",")),
		"--sort", SortOrder,
	}
}

type outputCursor struct {
	scanner *bufio.Scanner
	closer  io.Closer
	row     Row
	err     error
	closed  bool
}

/*
NewOutputCursor reads "content query" output lazily, one "Row: N col=value, ..." line at a time.
Rows with an unknown MIME type are skipped. If r is an io.Closer, it is closed by Close
*/
func NewOutputCursor(r io.Reader) Cursor {
	cursor := &outputCursor{scanner: bufio.NewScanner(r)}
	if closer, ok := r.(io.Closer); ok {
		cursor.closer = closer
	}
	return cursor
}

func (cursor *outputCursor) Next() bool {
	if cursor.closed || cursor.err != nil {
		return false
	}

	for cursor.scanner.Scan() {
		line := strings.TrimSpace(cursor.scanner.Text())

		if strings.HasPrefix(line, "Error while accessing provider") {
			cursor.err = fmt.Errorf("content provider error: %s", line)
			return false
		}
		if !strings.HasPrefix(line, "Row:") {
			continue
		}

		columns, err := parseRowLine(line)
		if err != nil {
			cursor.err = err
			return false
		}

		row, known := rowFromColumns(columns)
		if !known {
			continue
		}
		cursor.row = row
		return true
	}

	cursor.err = cursor.scanner.Err()
	return false
}

func (cursor *outputCursor) Row() Row {
	return cursor.row
}

func (cursor *outputCursor) Err() error {
	return cursor.err
}

func (cursor *outputCursor) Close() error {
	if cursor.closed {
		return nil
	}
	cursor.closed = true
	if cursor.closer != nil {
		return cursor.closer.Close()
	}
	return nil
}

// Columns are printed in projection order, values may contain ", "
func parseRowLine(line string) (map[string]string, error) {
	rest := strings.TrimPrefix(line, "Row:")
	rest = strings.TrimSpace(rest)

	// skip row index
	idx := strings.Index(rest, " ")
	if idx < 0 {
		return nil, fmt.Errorf("malformed row: %q", line)
	}
	rest = rest[idx+1:]

	columns := map[string]string{}
	for i, column := range Projection {
		prefix := column + "="
		if !strings.HasPrefix(rest, prefix) {
			return nil, fmt.Errorf("malformed row, expected column %s: %q", column, line)
		}
		rest = rest[len(prefix):]

		if i == len(Projection)-1 {
			columns[column] = rest
			break
		}

		sep := ", " + Projection[i+1] + "="
		end := strings.Index(rest, sep)
		if end < 0 {
			return nil, fmt.Errorf("malformed row, missing column %s: %q", Projection[i+1], line)
		}
		columns[column] = rest[:end]
		rest = rest[end+2:]
	}

	for key, value := range columns {
		if value == nullValue {
			columns[key] = ""
		}
	}
	return columns, nil
}

func rowFromColumns(columns map[string]string) (Row, bool) {
	fieldType, known := ParseFieldType(columns[ColumnMimeType])
	if !known {
		return Row{}, false
	}

	row := Row{
		Type:      fieldType,
		IsPrimary: columns[ColumnIsPrimary] != "" && columns[ColumnIsPrimary] != "0",
	}

	switch fieldType {
	case Email, Phone:
		row.Value = columns[ColumnData1]
	case StructuredName:
		row.GivenName = columns[ColumnData2]
		row.FamilyName = columns[ColumnData3]
	case Photo:
		row.Value = columns[ColumnPhotoURI]
	}
	return row, true
}
