package schema

import (
	"encoding/base64"
	"fmt"
)

// ValueType is the type tag of a value on the wire.
type ValueType string

const (
	ValueTypeString         ValueType = "STRING"
	ValueTypeByte           ValueType = "BYTE"
	ValueTypeShort          ValueType = "SHORT"
	ValueTypeInt            ValueType = "INT"
	ValueTypeLong           ValueType = "LONG"
	ValueTypeFloat          ValueType = "FLOAT"
	ValueTypeDouble         ValueType = "DOUBLE"
	ValueTypeBoolean        ValueType = "BOOLEAN"
	ValueTypeChar           ValueType = "CHAR"
	ValueTypeBigInteger     ValueType = "BIG_INTEGER"
	ValueTypeBigDecimal     ValueType = "BIG_DECIMAL"
	ValueTypeLocalDate      ValueType = "LOCAL_DATE"
	ValueTypeLocalDateTime  ValueType = "LOCAL_DATE_TIME"
	ValueTypeOffsetDateTime ValueType = "OFFSET_DATE_TIME"
	ValueTypeTimestamp      ValueType = "TIMESTAMP"
	ValueTypeEnum           ValueType = "ENUM"
	ValueTypeReference      ValueType = "REFERENCE"
	ValueTypeCollection     ValueType = "COLLECTION"
	ValueTypeBlob           ValueType = "BLOB"
	ValueTypeClob           ValueType = "CLOB"
	ValueTypeVoid           ValueType = "VOID"
)

// ValueDto holds a single value. At most one field is set; none for an
// absent value.
type ValueDto struct {
	String         *string        `xml:"string,omitempty"`
	Byte           *int8          `xml:"byte,omitempty"`
	Short          *int16         `xml:"short,omitempty"`
	Int            *int32         `xml:"int,omitempty"`
	Long           *int64         `xml:"long,omitempty"`
	Float          *float32       `xml:"float,omitempty"`
	Double         *float64       `xml:"double,omitempty"`
	Boolean        *bool          `xml:"boolean,omitempty"`
	Char           *string        `xml:"char,omitempty"`
	BigInteger     *string        `xml:"bigInteger,omitempty"`
	BigDecimal     *string        `xml:"bigDecimal,omitempty"`
	LocalDate      *string        `xml:"localDate,omitempty"`
	LocalDateTime  *string        `xml:"localDateTime,omitempty"`
	OffsetDateTime *string        `xml:"offsetDateTime,omitempty"`
	Timestamp      *string        `xml:"timestamp,omitempty"`
	Enum           *EnumDto       `xml:"enum,omitempty"`
	Reference      *OidDto        `xml:"reference,omitempty"`
	Collection     *CollectionDto `xml:"collection,omitempty"`
	Blob           *BlobDto       `xml:"blob,omitempty"`
	Clob           *ClobDto       `xml:"clob,omitempty"`
}

// IsAbsent reports that no field is set.
func (v *ValueDto) IsAbsent() bool {
	return v == nil || *v == ValueDto{}
}

// ValueWithTypeDto is a value tagged with its type.
type ValueWithTypeDto struct {
	Type ValueType `xml:"type,attr"`
	Null bool      `xml:"null,attr,omitempty"`
	ValueDto
}

// IsNull reports an explicitly null or absent value.
func (v *ValueWithTypeDto) IsNull() bool {
	return v == nil || v.Null || v.ValueDto.IsAbsent()
}

// IsCollection reports the COLLECTION tag.
func (v *ValueWithTypeDto) IsCollection() bool {
	return v != nil && v.Type == ValueTypeCollection
}

// CollectionDto holds the elements of a collection value, all of one type.
type CollectionDto struct {
	Type   ValueType          `xml:"type,attr"`
	Values []ValueWithTypeDto `xml:"value"`
}

// OidDto references a domain object by logical type name and identifier.
type OidDto struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

// String renders "type:id".
func (o OidDto) String() string {
	return o.Type + ":" + o.ID
}

// EnumDto is an enum constant.
type EnumDto struct {
	EnumType string `xml:"enumType,attr"`
	EnumName string `xml:"enumName,attr"`
}

// BlobDto is binary content, base64 encoded on the wire.
type BlobDto struct {
	Name     string `xml:"name,attr"`
	MimeType string `xml:"mimeType,attr"`
	Bytes    string `xml:",chardata"`
}

// NewBlobDto encodes data.
func NewBlobDto(name, mimeType string, data []byte) *BlobDto {
	return &BlobDto{Name: name, MimeType: mimeType, Bytes: base64.StdEncoding.EncodeToString(data)}
}

// Data decodes the content.
func (b *BlobDto) Data() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(b.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob %s: %w", b.Name, err)
	}

	return data, nil
}

// ClobDto is character content.
type ClobDto struct {
	Name     string `xml:"name,attr"`
	MimeType string `xml:"mimeType,attr"`
	Chars    string `xml:",chardata"`
}

// ValueOf returns the populated field of v as a plain Go value: the
// dereferenced primitive, or the *EnumDto, *OidDto, *CollectionDto, *BlobDto
// or *ClobDto. It returns nil for an absent value.
func ValueOf(v *ValueDto) any {
	if v == nil {
		return nil
	}

	switch {
	case v.String != nil:
		return *v.String
	case v.Byte != nil:
		return *v.Byte
	case v.Short != nil:
		return *v.Short
	case v.Int != nil:
		return *v.Int
	case v.Long != nil:
		return *v.Long
	case v.Float != nil:
		return *v.Float
	case v.Double != nil:
		return *v.Double
	case v.Boolean != nil:
		return *v.Boolean
	case v.Char != nil:
		return *v.Char
	case v.BigInteger != nil:
		return *v.BigInteger
	case v.BigDecimal != nil:
		return *v.BigDecimal
	case v.LocalDate != nil:
		return *v.LocalDate
	case v.LocalDateTime != nil:
		return *v.LocalDateTime
	case v.OffsetDateTime != nil:
		return *v.OffsetDateTime
	case v.Timestamp != nil:
		return *v.Timestamp
	case v.Enum != nil:
		return v.Enum
	case v.Reference != nil:
		return v.Reference
	case v.Collection != nil:
		return v.Collection
	case v.Blob != nil:
		return v.Blob
	case v.Clob != nil:
		return v.Clob
	}

	return nil
}

// NewValue tags a value. A nil or absent dto produces a null value.
func NewValue(vt ValueType, dto *ValueDto) ValueWithTypeDto {
	if dto.IsAbsent() {
		return ValueWithTypeDto{Type: vt, Null: true}
	}

	return ValueWithTypeDto{Type: vt, ValueDto: *dto}
}

// NullValue is a null value of the given type.
func NullValue(vt ValueType) ValueWithTypeDto {
	return ValueWithTypeDto{Type: vt, Null: true}
}

// Ptr returns a pointer to v, for filling ValueDto fields.
func Ptr[T any](v T) *T {
	return &v
}
