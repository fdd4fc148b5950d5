// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509ext

import (
	"bytes"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"

	x509oid "github.com/slcs/org.glite.slcs.common/src/internal/x509/oid"
)

var (
	// ErrUnsupportedExtension indicates an extension name or OID the builder
	// cannot produce.
	ErrUnsupportedExtension = errors.New("x509ext: unsupported extension")

	// ErrEmptyExtension indicates a value list without a single recognized
	// token.
	ErrEmptyExtension = errors.New("x509ext: no recognized values")

	// ErrEncoding indicates a failure to encode an extension value.
	ErrEncoding = errors.New("x509ext: failed to encode extension value")
)

// Kind identifies the typed extensions this package understands.
type Kind int

const (
	// Other is any extension this package does not interpret.
	Other Kind = iota
	KeyUsage
	ExtendedKeyUsage
	CertificatePolicies
	SubjectAltName
)

var kindNames = [...]string{
	Other:               "Other",
	KeyUsage:            "KeyUsage",
	ExtendedKeyUsage:    "ExtendedKeyUsage",
	CertificatePolicies: "CertificatePolicies",
	SubjectAltName:      "SubjectAltName",
}

// String returns the extension name, as accepted by [Builder.Build].
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// OID returns the extension identifier for k, or nil for [Other].
func (k Kind) OID() asn1.ObjectIdentifier {
	switch k {
	case KeyUsage:
		return x509oid.KeyUsage
	case ExtendedKeyUsage:
		return x509oid.ExtendedKeyUsage
	case CertificatePolicies:
		return x509oid.CertificatePolicies
	case SubjectAltName:
		return x509oid.SubjectAltName
	}
	return nil
}

// kindOf maps an extension identifier to its kind.
func kindOf(oid asn1.ObjectIdentifier) Kind {
	for k := KeyUsage; k <= SubjectAltName; k++ {
		if oid.Equal(k.OID()) {
			return k
		}
	}
	return Other
}

// Extension is a certificate extension together with a readable form of its
// value.
type Extension struct {
	Kind Kind
	OID  asn1.ObjectIdentifier
	// Name is the extension name, or the dotted OID for [Other].
	Name     string
	Critical bool
	// Value is the DER encoded extnValue.
	Value []byte
	// Description is the comma separated value list, such as
	// "DigitalSignature,KeyEncipherment". It is informational only.
	Description string
}

// Equal reports whether both extensions have the same OID, criticality and
// encoded value. Description is ignored.
func (e Extension) Equal(o Extension) bool {
	return e.OID.Equal(o.OID) && e.Critical == o.Critical && bytes.Equal(e.Value, o.Value)
}

// PKIX returns the extension in the form used by crypto/x509.
func (e Extension) PKIX() pkix.Extension {
	return pkix.Extension{
		Id:       e.OID,
		Critical: e.Critical,
		Value:    bytes.Clone(e.Value),
	}
}

// String formats the extension as "Name: description", marking critical
// extensions.
func (e Extension) String() string {
	if e.Critical {
		return e.Name + " (critical): " + e.Description
	}
	return e.Name + ": " + e.Description
}

// FromPKIX decodes a parsed extension into an [Extension], recovering the
// description for the kinds this package understands. Values that fail to
// decode are described in hex.
func FromPKIX(ext pkix.Extension) Extension {
	e := Extension{
		Kind:     kindOf(ext.Id),
		OID:      ext.Id,
		Critical: ext.Critical,
		Value:    bytes.Clone(ext.Value),
	}

	if e.Kind == Other {
		e.Name = ext.Id.String()
	} else {
		e.Name = e.Kind.String()
	}

	description, err := describe(e.Kind, ext.Value)
	if err != nil {
		description = fmt.Sprintf("%X", ext.Value)
	}
	e.Description = description

	return e
}

// FromPKIXList decodes every extension in exts, keeping their order.
func FromPKIXList(exts []pkix.Extension) []Extension {
	out := make([]Extension, 0, len(exts))
	for _, ext := range exts {
		out = append(out, FromPKIX(ext))
	}
	return out
}

// PKIXList converts extensions to the form used by crypto/x509.
func PKIXList(exts []Extension) []pkix.Extension {
	out := make([]pkix.Extension, 0, len(exts))
	for _, e := range exts {
		out = append(out, e.PKIX())
	}
	return out
}
