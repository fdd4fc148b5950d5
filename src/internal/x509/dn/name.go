// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509dn

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMalformedName indicates a distinguished name that cannot be parsed or
// decoded. Errors wrapping it name the offending token.
var ErrMalformedName = errors.New("x509dn: malformed name")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedName, fmt.Sprintf(format, args...))
}

// Name is a parsed distinguished name. It is immutable once built and safe
// for concurrent use.
type Name struct {
	// rdns is in encoding order, root-most first.
	rdns []RDN
}

// New builds a name from RDNs given in display order, most specific first.
func New(rdns ...RDN) *Name {
	n := &Name{rdns: make([]RDN, 0, len(rdns))}
	for i := len(rdns) - 1; i >= 0; i-- {
		if len(rdns[i]) == 0 {
			continue
		}
		n.rdns = append(n.rdns, slices.Clone(rdns[i]))
	}
	return n
}

// Len returns the number of RDNs.
func (n *Name) Len() int { return len(n.rdns) }

// IsEmpty reports whether the name has no RDNs.
func (n *Name) IsEmpty() bool { return len(n.rdns) == 0 }

// RDNs returns a copy of the RDNs in display order, most specific first.
func (n *Name) RDNs() []RDN {
	out := make([]RDN, 0, len(n.rdns))
	for i := len(n.rdns) - 1; i >= 0; i-- {
		out = append(out, slices.Clone(n.rdns[i]))
	}
	return out
}

// Sequence returns a copy of the RDNs in encoding order, root-most first.
func (n *Name) Sequence() []RDN {
	out := make([]RDN, len(n.rdns))
	for i, rdn := range n.rdns {
		out[i] = slices.Clone(rdn)
	}
	return out
}

// Values returns every value of the attribute named by keyword, in display
// order.
func (n *Name) Values(keyword string) []string {
	oid, ok := OID(keyword)
	if !ok {
		return nil
	}

	var values []string
	for i := len(n.rdns) - 1; i >= 0; i-- {
		for _, a := range n.rdns[i] {
			if a.Type.Equal(oid) {
				values = append(values, a.Value)
			}
		}
	}
	return values
}

// Value returns the first value of the attribute named by keyword, in
// display order.
func (n *Name) Value(keyword string) (string, bool) {
	values := n.Values(keyword)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// String renders the name in display order. Values parsed from a string keep
// their original escaping.
func (n *Name) String() string {
	var b strings.Builder
	for i := len(n.rdns) - 1; i >= 0; i-- {
		b.WriteString(n.rdns[i].String())
		if i > 0 {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// Equal reports whether both names hold the same attributes in the same
// positions. Escaping differences are ignored.
func (n *Name) Equal(o *Name) bool {
	if n == nil || o == nil {
		return n == o
	}
	return slices.EqualFunc(n.rdns, o.rdns, func(a, b RDN) bool {
		return slices.EqualFunc(a, b, Attribute.equal)
	})
}
