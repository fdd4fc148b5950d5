// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509oid

import (
	"encoding/asn1"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidOID indicates that a string is not a dotted object identifier.
var ErrInvalidOID = errors.New("x509oid: invalid object identifier")

// Certificate extension identifiers (RFC 5280).
var (
	KeyUsage            = asn1.ObjectIdentifier{2, 5, 29, 15}
	SubjectAltName      = asn1.ObjectIdentifier{2, 5, 29, 17}
	CertificatePolicies = asn1.ObjectIdentifier{2, 5, 29, 32}
	ExtendedKeyUsage    = asn1.ObjectIdentifier{2, 5, 29, 37}
)

// PKCS#9 extension request attribute (RFC 2985).
var ExtensionRequest = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 14}

// Key purpose identifiers for the extended key usage extension.
var (
	AnyExtendedKeyUsage = asn1.ObjectIdentifier{2, 5, 29, 37, 0}
	ServerAuth          = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 1}
	ClientAuth          = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 2}
	CodeSigning         = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 3}
	EmailProtection     = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 4}
	IPSecEndSystem      = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 5}
	IPSecTunnel         = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 6}
	IPSecUser           = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 7}
	TimeStamping        = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 8}
	OCSPSigning         = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 9}
	SmartcardLogon      = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 20, 2, 2}
)

// Parse converts a dotted string such as "2.5.29.15" into an object identifier.
//
// The first arc must be 0, 1 or 2 and at least two arcs are required, as in
// the X.690 encoding rules. An optional "OID." prefix is accepted because
// RFC 1779 style names carry it.
func Parse(s string) (asn1.ObjectIdentifier, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > 4 && strings.EqualFold(trimmed[:4], "oid.") {
		trimmed = trimmed[4:]
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOID, s)
	}

	oid := make(asn1.ObjectIdentifier, len(parts))
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOID, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOID, s)
		}
		oid[i] = n
	}

	if oid[0] > 2 || (oid[0] < 2 && oid[1] > 39) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOID, s)
	}

	return oid, nil
}

// IsDotted reports whether s looks like a dotted object identifier rather
// than a keyword. It does not validate the arcs.
func IsDotted(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > 4 && strings.EqualFold(trimmed[:4], "oid.") {
		return true
	}
	return trimmed != "" && trimmed[0] >= '0' && trimmed[0] <= '9'
}
