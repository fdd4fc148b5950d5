// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509ext

import (
	"crypto/x509"
	encasn1 "encoding/asn1"
	"errors"
	"fmt"
	"net"
	"strings"

	x509oid "github.com/slcs/org.glite.slcs.common/src/internal/x509/oid"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// GeneralName tags used in subject alternative names (RFC 5280, 4.2.1.6).
var (
	tagRFC822Name = asn1.Tag(1).ContextSpecific()
	tagDNSName    = asn1.Tag(2).ContextSpecific()
	tagURI        = asn1.Tag(6).ContextSpecific()
	tagIPAddress  = asn1.Tag(7).ContextSpecific()
)

// Subject alternative name prefixes.
const (
	PrefixEmail = "email:"
	PrefixDNS   = "dns:"
)

// keyUsage is one named bit of the key usage extension.
type keyUsage struct {
	name  string
	usage x509.KeyUsage
}

// keyUsages is ordered by bit position.
var keyUsages = []keyUsage{
	{"DigitalSignature", x509.KeyUsageDigitalSignature},
	{"NonRepudiation", x509.KeyUsageContentCommitment},
	{"KeyEncipherment", x509.KeyUsageKeyEncipherment},
	{"DataEncipherment", x509.KeyUsageDataEncipherment},
	{"KeyAgreement", x509.KeyUsageKeyAgreement},
	{"KeyCertSign", x509.KeyUsageCertSign},
	{"CRLSign", x509.KeyUsageCRLSign},
	{"EncipherOnly", x509.KeyUsageEncipherOnly},
	{"DecipherOnly", x509.KeyUsageDecipherOnly},
}

// extKeyUsage is one key purpose of the extended key usage extension.
type extKeyUsage struct {
	name string
	oid  encasn1.ObjectIdentifier
}

var extKeyUsages = []extKeyUsage{
	{"AnyExtendedKeyUsage", x509oid.AnyExtendedKeyUsage},
	{"ServerAuth", x509oid.ServerAuth},
	{"ClientAuth", x509oid.ClientAuth},
	{"CodeSigning", x509oid.CodeSigning},
	{"EmailProtection", x509oid.EmailProtection},
	{"IPSecEndSystem", x509oid.IPSecEndSystem},
	{"IPSecTunnel", x509oid.IPSecTunnel},
	{"IPSecUser", x509oid.IPSecUser},
	{"TimeStamping", x509oid.TimeStamping},
	{"OCSPSigning", x509oid.OCSPSigning},
	{"Smartcardlogon", x509oid.SmartcardLogon},
}

func lookupKeyUsage(token string) (keyUsage, bool) {
	for _, ku := range keyUsages {
		if strings.EqualFold(ku.name, token) {
			return ku, true
		}
	}
	return keyUsage{}, false
}

func lookupExtKeyUsage(token string) (extKeyUsage, bool) {
	for _, eku := range extKeyUsages {
		if strings.EqualFold(eku.name, token) {
			return eku, true
		}
	}
	return extKeyUsage{}, false
}

func extKeyUsageName(oid encasn1.ObjectIdentifier) string {
	for _, eku := range extKeyUsages {
		if eku.oid.Equal(oid) {
			return eku.name
		}
	}
	return oid.String()
}

// marshalKeyUsage encodes the usage bits as a BIT STRING with trailing zero
// bits removed, the DER form for named bit lists.
func marshalKeyUsage(usage x509.KeyUsage) ([]byte, error) {
	var bits [2]byte
	n := 0
	for i := range 9 {
		if usage&(1<<i) != 0 {
			bits[i/8] |= 0x80 >> (i % 8)
			n = i/8 + 1
		}
	}
	content := bits[:n]

	unused := 0
	if n > 0 {
		last := content[n-1]
		for last&1 == 0 {
			last >>= 1
			unused++
		}
	}

	var b cryptobyte.Builder
	b.AddASN1(asn1.BIT_STRING, func(b *cryptobyte.Builder) {
		b.AddUint8(uint8(unused))
		b.AddBytes(content)
	})
	return b.Bytes()
}

func unmarshalKeyUsage(der []byte) (x509.KeyUsage, error) {
	input := cryptobyte.String(der)
	var bs encasn1.BitString
	if !input.ReadASN1BitString(&bs) || !input.Empty() {
		return 0, errors.New("invalid key usage encoding")
	}

	var usage x509.KeyUsage
	for i := range 9 {
		if bs.At(i) != 0 {
			usage |= 1 << i
		}
	}
	return usage, nil
}

func describeKeyUsage(usage x509.KeyUsage) string {
	var names []string
	for _, ku := range keyUsages {
		if usage&ku.usage != 0 {
			names = append(names, ku.name)
		}
	}
	return strings.Join(names, ",")
}

// marshalOIDSequence encodes a SEQUENCE OF OBJECT IDENTIFIER.
func marshalOIDSequence(oids []encasn1.ObjectIdentifier) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, oid := range oids {
			b.AddASN1ObjectIdentifier(oid)
		}
	})
	return b.Bytes()
}

func unmarshalOIDSequence(der []byte) ([]encasn1.ObjectIdentifier, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() {
		return nil, errors.New("invalid OID sequence encoding")
	}

	var oids []encasn1.ObjectIdentifier
	for !seq.Empty() {
		var oid encasn1.ObjectIdentifier
		if !seq.ReadASN1ObjectIdentifier(&oid) {
			return nil, errors.New("invalid OID in sequence")
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

// marshalPolicies encodes certificatePolicies with bare PolicyInformation
// entries, no qualifiers.
func marshalPolicies(policies []encasn1.ObjectIdentifier) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, policy := range policies {
			b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(policy)
			})
		}
	})
	return b.Bytes()
}

func unmarshalPolicies(der []byte) ([]encasn1.ObjectIdentifier, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() {
		return nil, errors.New("invalid certificate policies encoding")
	}

	var policies []encasn1.ObjectIdentifier
	for !seq.Empty() {
		var (
			info cryptobyte.String
			oid  encasn1.ObjectIdentifier
		)
		// Qualifiers after the identifier are ignored.
		if !seq.ReadASN1(&info, asn1.SEQUENCE) || !info.ReadASN1ObjectIdentifier(&oid) {
			return nil, errors.New("invalid policy information")
		}
		policies = append(policies, oid)
	}
	return policies, nil
}

// generalName is one entry of a subject alternative name.
type generalName struct {
	tag   asn1.Tag
	value string
}

func (g generalName) String() string {
	switch g.tag {
	case tagRFC822Name:
		return PrefixEmail + g.value
	case tagDNSName:
		return PrefixDNS + g.value
	case tagURI:
		return "uri:" + g.value
	case tagIPAddress:
		return "ip:" + g.value
	}
	return fmt.Sprintf("[%d]:%s", int(g.tag&0x1f), g.value)
}

func marshalGeneralNames(names []generalName) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, n := range names {
			b.AddASN1(n.tag, func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(n.value))
			})
		}
	})
	return b.Bytes()
}

func unmarshalGeneralNames(der []byte) ([]generalName, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() {
		return nil, errors.New("invalid general names encoding")
	}

	var names []generalName
	for !seq.Empty() {
		var (
			body cryptobyte.String
			tag  asn1.Tag
		)
		if !seq.ReadAnyASN1(&body, &tag) {
			return nil, errors.New("invalid general name")
		}

		switch tag {
		case tagRFC822Name, tagDNSName, tagURI:
			names = append(names, generalName{tag: tag, value: string(body)})
		case tagIPAddress:
			names = append(names, generalName{tag: tag, value: net.IP(body).String()})
		default:
			names = append(names, generalName{tag: tag, value: fmt.Sprintf("%X", []byte(body))})
		}
	}
	return names, nil
}

// describe renders the value of a typed extension as a token list.
func describe(kind Kind, value []byte) (string, error) {
	switch kind {
	case KeyUsage:
		usage, err := unmarshalKeyUsage(value)
		if err != nil {
			return "", err
		}
		return describeKeyUsage(usage), nil

	case ExtendedKeyUsage:
		oids, err := unmarshalOIDSequence(value)
		if err != nil {
			return "", err
		}
		names := make([]string, len(oids))
		for i, oid := range oids {
			names[i] = extKeyUsageName(oid)
		}
		return strings.Join(names, ","), nil

	case CertificatePolicies:
		policies, err := unmarshalPolicies(value)
		if err != nil {
			return "", err
		}
		names := make([]string, len(policies))
		for i, p := range policies {
			names[i] = p.String()
		}
		return strings.Join(names, ","), nil

	case SubjectAltName:
		gns, err := unmarshalGeneralNames(value)
		if err != nil {
			return "", err
		}
		names := make([]string, len(gns))
		for i, gn := range gns {
			names[i] = gn.String()
		}
		return strings.Join(names, ","), nil
	}

	return "", errors.New("opaque extension")
}
