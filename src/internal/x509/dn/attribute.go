// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509dn

import (
	"encoding/asn1"
	"strings"

	x509oid "github.com/slcs/org.glite.slcs.common/src/internal/x509/oid"
)

// attributeType describes one entry of the keyword table.
type attributeType struct {
	keyword string
	oid     asn1.ObjectIdentifier
	// stringType is the DER string type used when encoding values.
	stringType stringKind
}

type stringKind int

const (
	utf8Kind stringKind = iota
	printableKind
	ia5Kind
)

// attributeTypes lists the keywords accepted in names. The first entry for
// an OID is the keyword used when rendering.
var attributeTypes = []attributeType{
	{"C", asn1.ObjectIdentifier{2, 5, 4, 6}, printableKind},
	{"O", asn1.ObjectIdentifier{2, 5, 4, 10}, utf8Kind},
	{"OU", asn1.ObjectIdentifier{2, 5, 4, 11}, utf8Kind},
	{"CN", asn1.ObjectIdentifier{2, 5, 4, 3}, utf8Kind},
	{"L", asn1.ObjectIdentifier{2, 5, 4, 7}, utf8Kind},
	{"ST", asn1.ObjectIdentifier{2, 5, 4, 8}, utf8Kind},
	{"STREET", asn1.ObjectIdentifier{2, 5, 4, 9}, utf8Kind},
	{"SERIALNUMBER", asn1.ObjectIdentifier{2, 5, 4, 5}, printableKind},
	{"SN", asn1.ObjectIdentifier{2, 5, 4, 5}, printableKind},
	{"T", asn1.ObjectIdentifier{2, 5, 4, 12}, utf8Kind},
	{"TITLE", asn1.ObjectIdentifier{2, 5, 4, 12}, utf8Kind},
	{"SURNAME", asn1.ObjectIdentifier{2, 5, 4, 4}, utf8Kind},
	{"GIVENNAME", asn1.ObjectIdentifier{2, 5, 4, 42}, utf8Kind},
	{"INITIALS", asn1.ObjectIdentifier{2, 5, 4, 43}, utf8Kind},
	{"GENERATION", asn1.ObjectIdentifier{2, 5, 4, 44}, utf8Kind},
	{"UNIQUEIDENTIFIER", asn1.ObjectIdentifier{2, 5, 4, 45}, utf8Kind},
	{"DN", asn1.ObjectIdentifier{2, 5, 4, 46}, printableKind},
	{"DNQUALIFIER", asn1.ObjectIdentifier{2, 5, 4, 46}, printableKind},
	{"PSEUDONYM", asn1.ObjectIdentifier{2, 5, 4, 65}, utf8Kind},
	{"POSTALCODE", asn1.ObjectIdentifier{2, 5, 4, 17}, utf8Kind},
	{"BUSINESSCATEGORY", asn1.ObjectIdentifier{2, 5, 4, 15}, utf8Kind},
	{"TELEPHONENUMBER", asn1.ObjectIdentifier{2, 5, 4, 20}, printableKind},
	{"NAME", asn1.ObjectIdentifier{2, 5, 4, 41}, utf8Kind},
	{"DC", asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 25}, ia5Kind},
	{"UID", asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}, utf8Kind},
	{"E", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}, ia5Kind},
	{"EMAILADDRESS", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}, ia5Kind},
	{"UNSTRUCTUREDNAME", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 2}, ia5Kind},
	{"UNSTRUCTUREDADDRESS", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 8}, utf8Kind},
}

var (
	byKeyword = make(map[string]*attributeType, len(attributeTypes))
	byOID     = make(map[string]*attributeType, len(attributeTypes))
)

func init() {
	for i := range attributeTypes {
		t := &attributeTypes[i]
		byKeyword[t.keyword] = t
		if _, ok := byOID[t.oid.String()]; !ok {
			byOID[t.oid.String()] = t
		}
	}
}

// OID returns the object identifier for an attribute keyword such as "CN"
// or "emailAddress". Keywords are matched case-insensitively and dotted
// identifiers are accepted as well.
func OID(keyword string) (asn1.ObjectIdentifier, bool) {
	k := strings.ToUpper(strings.TrimSpace(keyword))
	if t, ok := byKeyword[k]; ok {
		return t.oid, true
	}
	if x509oid.IsDotted(k) {
		oid, err := x509oid.Parse(k)
		if err != nil {
			return nil, false
		}
		return oid, true
	}
	return nil, false
}

// Keyword returns the keyword used to render oid. Identifiers without a
// keyword render in dotted form.
func Keyword(oid asn1.ObjectIdentifier) string {
	if t, ok := byOID[oid.String()]; ok {
		return t.keyword
	}
	return oid.String()
}

// kindOf returns the DER string type for values of the given attribute.
func kindOf(oid asn1.ObjectIdentifier) stringKind {
	if t, ok := byOID[oid.String()]; ok {
		return t.stringType
	}
	return utf8Kind
}

// Attribute is a single type and value pair of a relative distinguished
// name.
type Attribute struct {
	// Type is the attribute type.
	Type asn1.ObjectIdentifier
	// Value is the unescaped value. For values given in "#hex" form or
	// decoded from a non-string DER type it holds the "#hex" text.
	Value string

	// escaped is the rendered value.
	escaped string
	// raw holds the DER encoding of the value when it is not a plain
	// string.
	raw []byte
}

// NewAttribute returns an attribute for a keyword or dotted identifier and
// an unescaped value.
func NewAttribute(keyword, value string) (Attribute, error) {
	oid, ok := OID(keyword)
	if !ok {
		return Attribute{}, malformed("unknown attribute keyword %q", keyword)
	}
	return Attribute{Type: oid, Value: value, escaped: Escape(value)}, nil
}

// Keyword returns the keyword used to render the attribute type.
func (a Attribute) Keyword() string { return Keyword(a.Type) }

// String renders the attribute as keyword=value.
func (a Attribute) String() string {
	return a.Keyword() + "=" + a.escapedValue()
}

func (a Attribute) escapedValue() string {
	if a.escaped == "" && a.Value != "" {
		return Escape(a.Value)
	}
	return a.escaped
}

// equal compares type and value, ignoring how the value was escaped.
func (a Attribute) equal(b Attribute) bool {
	if !a.Type.Equal(b.Type) {
		return false
	}
	if a.raw != nil || b.raw != nil {
		return string(a.raw) == string(b.raw) && a.Value == b.Value
	}
	return a.Value == b.Value
}

// RDN is a relative distinguished name: one or more attributes sharing a
// position in the name. Attributes keep insertion order.
type RDN []Attribute

// String renders the RDN with attributes joined by "+".
func (r RDN) String() string {
	var b strings.Builder
	for i, a := range r {
		if i > 0 {
			b.WriteByte('+')
		}
		b.WriteString(a.String())
	}
	return b.String()
}
