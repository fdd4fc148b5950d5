// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509dn

import (
	"bytes"
	encasn1 "encoding/asn1"
	"encoding/hex"
	"slices"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Universal string tags not defined by cryptobyte/asn1.
const (
	tagUniversalString = asn1.Tag(28)
	tagBMPString       = asn1.Tag(30)
)

// Marshal returns the DER encoding of the name as an X.509 RDNSequence.
//
// Attributes of a multi-valued RDN are sorted by their encoding as DER
// requires for SET OF, so the encoded order may differ from the order in
// which they were parsed.
func (n *Name) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, rdn := range n.rdns {
			members := make([][]byte, 0, len(rdn))
			for _, a := range rdn {
				der, err := marshalAttribute(a)
				if err != nil {
					b.SetError(err)
					return
				}
				members = append(members, der)
			}
			slices.SortFunc(members, bytes.Compare)

			b.AddASN1(asn1.SET, func(b *cryptobyte.Builder) {
				for _, m := range members {
					b.AddBytes(m)
				}
			})
		}
	})
	return b.Bytes()
}

// marshalAttribute encodes one AttributeTypeAndValue.
func marshalAttribute(a Attribute) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(a.Type)
		if a.raw != nil {
			b.AddBytes(a.raw)
			return
		}
		b.AddASN1(stringTag(a.Type, a.Value), func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(a.Value))
		})
	})
	return b.Bytes()
}

// stringTag picks the DER string type for a value. Values that do not fit
// the preferred restricted type fall back to UTF8String.
func stringTag(oid encasn1.ObjectIdentifier, v string) asn1.Tag {
	switch kindOf(oid) {
	case printableKind:
		if isPrintable(v) {
			return asn1.PrintableString
		}
	case ia5Kind:
		if isIA5(v) {
			return asn1.IA5String
		}
	}
	return asn1.UTF8String
}

// Unmarshal decodes a DER encoded RDNSequence, such as the raw subject of a
// certificate or request. Values of string types are decoded, any other
// value type is kept and renders in "#hex" form.
func Unmarshal(der []byte) (*Name, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() {
		return nil, malformed("invalid RDNSequence encoding")
	}

	n := &Name{}
	for !seq.Empty() {
		var set cryptobyte.String
		if !seq.ReadASN1(&set, asn1.SET) {
			return nil, malformed("invalid RDN encoding at position %d", len(n.rdns))
		}

		var rdn RDN
		for !set.Empty() {
			var (
				atv     cryptobyte.String
				oid     encasn1.ObjectIdentifier
				element cryptobyte.String
			)
			if !set.ReadASN1(&atv, asn1.SEQUENCE) ||
				!atv.ReadASN1ObjectIdentifier(&oid) ||
				!atv.ReadAnyASN1Element(&element, nil) ||
				!atv.Empty() {
				return nil, malformed("invalid attribute encoding at position %d", len(n.rdns))
			}

			a := Attribute{Type: oid}
			if value, ok := decodeString(element); ok {
				a.Value = value
				a.escaped = Escape(value)
			} else {
				a.raw = bytes.Clone(element)
				a.Value = "#" + hex.EncodeToString(element)
				a.escaped = a.Value
			}
			rdn = append(rdn, a)
		}

		if len(rdn) == 0 {
			return nil, malformed("empty RDN at position %d", len(n.rdns))
		}
		n.rdns = append(n.rdns, rdn)
	}

	return n, nil
}

// decodeString decodes a DER string element. It reports false for
// non-string types and invalid contents.
func decodeString(element []byte) (string, bool) {
	input := cryptobyte.String(element)
	var (
		body cryptobyte.String
		tag  asn1.Tag
	)
	if !input.ReadAnyASN1(&body, &tag) {
		return "", false
	}

	switch tag {
	case asn1.UTF8String:
		if !utf8.Valid(body) {
			return "", false
		}
		return string(body), true

	case asn1.PrintableString, asn1.IA5String:
		for _, c := range body {
			if c >= utf8.RuneSelf {
				return "", false
			}
		}
		return string(body), true

	case asn1.T61String:
		// Treated as ISO 8859-1, which covers what issuers put in it.
		var b strings.Builder
		for _, c := range body {
			b.WriteRune(rune(c))
		}
		return b.String(), true

	case tagBMPString:
		if len(body)%2 != 0 {
			return "", false
		}
		units := make([]uint16, 0, len(body)/2)
		for i := 0; i < len(body); i += 2 {
			units = append(units, uint16(body[i])<<8|uint16(body[i+1]))
		}
		return string(utf16.Decode(units)), true

	case tagUniversalString:
		if len(body)%4 != 0 {
			return "", false
		}
		var b strings.Builder
		for i := 0; i < len(body); i += 4 {
			r := rune(body[i])<<24 | rune(body[i+1])<<16 | rune(body[i+2])<<8 | rune(body[i+3])
			if !utf8.ValidRune(r) {
				return "", false
			}
			b.WriteRune(r)
		}
		return b.String(), true
	}

	return "", false
}

// isPrintable reports whether v only holds PrintableString characters.
func isPrintable(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case strings.IndexByte(" '()+,-./:=?", c) >= 0:
		default:
			return false
		}
	}
	return true
}

func isIA5(v string) bool {
	for i := 0; i < len(v); i++ {
		if v[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
