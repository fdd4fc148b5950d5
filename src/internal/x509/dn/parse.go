// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509dn

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
)

// Parse parses a distinguished name in RFC 2253 string form, such as
// "CN=Foo\+Bar,O=SWITCH,C=CH".
//
// RDNs are separated by unescaped "," or ";" and attributes of a
// multi-valued RDN by unescaped "+". Values may be escaped with a backslash,
// written as "\hh" hex pairs, quoted, or given as "#" followed by the hex
// encoded DER value. Attribute types are keywords from the package table
// or dotted object identifiers.
//
// Parse fails with [ErrMalformedName] when a segment has no unescaped "=",
// when a keyword is unknown, or when escaping or quoting is broken. An empty
// or blank string yields an empty name.
func Parse(s string) (*Name, error) {
	if strings.TrimSpace(s) == "" {
		return &Name{}, nil
	}

	segments, err := split(s, ",;")
	if err != nil {
		return nil, err
	}

	// Walk from the right so the root-most RDN comes first.
	n := &Name{rdns: make([]RDN, 0, len(segments))}
	for i := len(segments) - 1; i >= 0; i-- {
		segment := segments[i]
		if strings.TrimSpace(segment) == "" {
			return nil, malformed("empty RDN at position %d in %q", i, s)
		}

		pairs, err := split(segment, "+")
		if err != nil {
			return nil, err
		}

		rdn := make(RDN, 0, len(pairs))
		for _, pair := range pairs {
			a, err := parseAttribute(pair)
			if err != nil {
				return nil, err
			}
			rdn = append(rdn, a)
		}
		n.rdns = append(n.rdns, rdn)
	}

	return n, nil
}

// split cuts s at every separator byte that is neither escaped nor inside
// a quoted value. A quote opens a quoted value only as the first non-space
// character after the "=" of a pair; anywhere else it is a plain character.
func split(s, seps string) ([]string, error) {
	var (
		parts   []string
		start   int
		quoted  bool
		escaped bool
		inValue bool
		leading bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
			leading = false
		case quoted:
			if c == '"' {
				quoted = false
			}
		case c == '"' && leading:
			quoted = true
			leading = false
		case c == '=' && !inValue:
			inValue = true
			leading = true
		case strings.IndexByte(",;+", c) >= 0:
			inValue = false
			leading = false
			if strings.IndexByte(seps, c) >= 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		case c != ' ':
			leading = false
		}
	}

	if escaped {
		return nil, malformed("trailing backslash in %q", s)
	}
	if quoted {
		return nil, malformed("unterminated quote in %q", s)
	}

	return append(parts, s[start:]), nil
}

// parseAttribute parses a single type=value pair.
func parseAttribute(pair string) (Attribute, error) {
	eq := indexUnescaped(pair, '=')
	if eq < 0 {
		return Attribute{}, malformed("missing '=' in %q", strings.TrimSpace(pair))
	}

	keyword := strings.TrimSpace(pair[:eq])
	if keyword == "" {
		return Attribute{}, malformed("missing attribute type in %q", strings.TrimSpace(pair))
	}
	oid, ok := OID(keyword)
	if !ok {
		return Attribute{}, malformed("unknown attribute keyword %q", keyword)
	}

	a, err := parseValue(pair[eq+1:])
	if err != nil {
		return Attribute{}, err
	}
	a.Type = oid
	return a, nil
}

// parseValue decodes the value side of a pair and records its rendered form.
func parseValue(raw string) (Attribute, error) {
	v := trimValue(raw)

	switch {
	case v == "":
		return Attribute{}, nil

	case v[0] == '#':
		return parseHexValue(v)

	case v[0] == '"':
		if len(v) < 2 || v[len(v)-1] != '"' || isEscaped(v, len(v)-1) {
			return Attribute{}, malformed("unterminated quote in %q", v)
		}
		value, _, err := unescape(v[1:len(v)-1], true)
		if err != nil {
			return Attribute{}, err
		}
		return Attribute{Value: value, escaped: Escape(value)}, nil
	}

	value, escaped, err := unescape(v, false)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Value: value, escaped: escaped}, nil
}

// parseHexValue handles the "#" form, which carries a complete DER element.
func parseHexValue(v string) (Attribute, error) {
	der, err := hex.DecodeString(v[1:])
	if err != nil || len(der) == 0 {
		return Attribute{}, malformed("invalid hex value %q", v)
	}

	input := cryptobyte.String(der)
	var element cryptobyte.String
	if !input.ReadAnyASN1Element(&element, nil) || !input.Empty() {
		return Attribute{}, malformed("hex value %q is not a single DER element", v)
	}

	value, ok := decodeString(der)
	if !ok {
		value = v
	}
	return Attribute{Value: value, escaped: v, raw: der}, nil
}

// unescape resolves backslash escapes in v. Unless quoted, it also returns
// v with every escape kept as written and any unescaped special character
// escaped, which is how the value renders.
func unescape(v string, quoted bool) (string, string, error) {
	var value, escaped strings.Builder
	value.Grow(len(v))
	escaped.Grow(len(v))

	for i := 0; i < len(v); {
		c := v[i]

		if c != '\\' {
			if quoted && c == '"' {
				return "", "", malformed("unescaped quote in %q", v)
			}
			value.WriteByte(c)
			if !quoted && needsEscape(c) {
				escaped.WriteByte('\\')
			}
			escaped.WriteByte(c)
			i++
			continue
		}

		if i+1 >= len(v) {
			return "", "", malformed("trailing backslash in %q", v)
		}

		next := v[i+1]
		switch {
		case i+2 < len(v) && isHex(next) && isHex(v[i+2]):
			value.WriteByte(unhex(next)<<4 | unhex(v[i+2]))
			escaped.WriteString(v[i : i+3])
			i += 3
		case strings.IndexByte(escapable, next) >= 0:
			value.WriteByte(next)
			escaped.WriteString(v[i : i+2])
			i += 2
		default:
			return "", "", malformed("invalid escape %q in %q", v[i:i+2], v)
		}
	}

	if !utf8.ValidString(value.String()) {
		return "", "", malformed("value %q is not valid UTF-8", v)
	}

	return value.String(), escaped.String(), nil
}

// escapable lists the characters that may follow a backslash.
const escapable = ",=+<>#;\\\" "

// needsEscape reports whether an unescaped character inside a value must
// be escaped on output.
func needsEscape(c byte) bool {
	return c == '=' || c == '<' || c == '>' || c == '"'
}

// trimValue removes surrounding whitespace that is not escaped.
func trimValue(s string) string {
	s = strings.TrimLeft(s, " ")
	end := len(s)
	for end > 0 && s[end-1] == ' ' && !isEscaped(s, end-1) {
		end--
	}
	return s[:end]
}

// isEscaped reports whether the byte at i is preceded by an odd number of
// backslashes.
func isEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// indexUnescaped returns the index of the first c in s that is not escaped,
// or -1.
func indexUnescaped(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case c:
			return i
		}
	}
	return -1
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
