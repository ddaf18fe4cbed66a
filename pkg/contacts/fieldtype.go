package contacts

import "fmt"

// FieldType is the kind of a profile data row, identified on the device by its MIME type
type FieldType int

const (
	Email FieldType = iota
	StructuredName
	Phone
	Photo
)

const (
	EmailMimeType          = "vnd.android.cursor.item/email_v2"
	StructuredNameMimeType = "vnd.android.cursor.item/name"
	PhoneMimeType          = "vnd.android.cursor.item/phone_v2"
	PhotoMimeType          = "vnd.android.cursor.item/photo"
)

var FieldTypes = []FieldType{Email, StructuredName, Phone, Photo}

func (fieldType FieldType) MimeType() string {
	switch fieldType {
	case Email:
		return EmailMimeType
	case StructuredName:
		return StructuredNameMimeType
	case Phone:
		return PhoneMimeType
	case Photo:
		return PhotoMimeType
	}
	return ""
}

func (fieldType FieldType) String() string {
	switch fieldType {
	case Email:
		return "email"
	case StructuredName:
		return "structured-name"
	case Phone:
		return "phone"
	case Photo:
		return "photo"
	}
	return fmt.Sprintf("FieldType(%d)", int(fieldType))
}

func ParseFieldType(mimeType string) (FieldType, bool) {
	for _, fieldType := range FieldTypes {
		if fieldType.MimeType() == mimeType {
			return fieldType, true
		}
	}
	return 0, false
}

// ParseFieldTypeName is the inverse of FieldType.String
func ParseFieldTypeName(name string) (FieldType, error) {
	for _, fieldType := range FieldTypes {
		if fieldType.String() == name {
			return fieldType, nil
		}
	}
	return 0, fmt.Errorf("unknown field type %q", name)
}
