// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bytes"
	"crypto/x509"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
	"github.com/slcs/org.glite.slcs.common/src/internal/helper/posix"
	x509certs "github.com/slcs/org.glite.slcs.common/src/internal/x509/certs"
	"software.sslmate.com/src/go-pkcs12"
)

// ErrTrustStore indicates a trust store that cannot be read.
var ErrTrustStore = errors.New("x509chain: cannot read trust store")

// StoreType names a trust store encoding.
type StoreType string

const (
	// StorePEM is one or more PEM certificate blocks.
	StorePEM StoreType = "pem"
	// StoreJKS is a Java KeyStore.
	StoreJKS StoreType = "jks"
	// StorePKCS12 is a PKCS#12 file.
	StorePKCS12 StoreType = "pkcs12"
)

// ParseStoreType parses a store type name. An empty name is detected from
// the extension of path.
func ParseStoreType(name, path string) (StoreType, error) {
	if name == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jks", ".keystore", ".truststore":
			return StoreJKS, nil
		case ".p12", ".pfx":
			return StorePKCS12, nil
		default:
			return StorePEM, nil
		}
	}

	switch t := StoreType(strings.ToLower(name)); t {
	case StorePEM, StoreJKS, StorePKCS12:
		return t, nil
	case "p12", "pfx":
		return StorePKCS12, nil
	default:
		return "", fmt.Errorf("%w: unknown store type %q", ErrTrustStore, name)
	}
}

// LoadTrustStore reads every certificate in a trust store into an
// [IssuerSet]. JKS stores contribute trusted certificate entries and the
// leaf of each private key entry.
func LoadTrustStore(data []byte, typ StoreType, password string) (*IssuerSet, error) {
	var (
		certs []*x509.Certificate
		err   error
	)

	switch typ {
	case StorePEM:
		certs, err = x509certs.New().DecodeMultiple(data)
	case StoreJKS:
		certs, err = loadJKS(data, password)
	case StorePKCS12:
		certs, err = loadPKCS12(data, password)
	default:
		return nil, fmt.Errorf("%w: unknown store type %q", ErrTrustStore, typ)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrustStore, err)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrTrustStore, x509certs.ErrNoCertificateFound)
	}

	return NewIssuerSet(certs...), nil
}

// LoadTrustStoreFile reads a trust store from path.
func LoadTrustStoreFile(path string, typ StoreType, password string) (*IssuerSet, error) {
	data, err := posix.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrustStore, err)
	}
	return LoadTrustStore(data, typ, password)
}

func loadJKS(data []byte, password string) ([]*x509.Certificate, error) {
	ks := keystore.New()
	if err := ks.Load(bytes.NewReader(data), []byte(password)); err != nil {
		return nil, err
	}

	var certs []*x509.Certificate
	for _, alias := range ks.Aliases() {
		var content []byte

		switch {
		case ks.IsTrustedCertificateEntry(alias):
			entry, err := ks.GetTrustedCertificateEntry(alias)
			if err != nil {
				return nil, fmt.Errorf("alias %q: %w", alias, err)
			}
			content = entry.Certificate.Content
		case ks.IsPrivateKeyEntry(alias):
			chain, err := ks.GetPrivateKeyEntryCertificateChain(alias)
			if err != nil {
				return nil, fmt.Errorf("alias %q: %w", alias, err)
			}
			if len(chain) == 0 {
				continue
			}
			content = chain[0].Content
		default:
			continue
		}

		cert, err := x509.ParseCertificate(content)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", alias, err)
		}
		certs = append(certs, cert)
	}

	return certs, nil
}

func loadPKCS12(data []byte, password string) ([]*x509.Certificate, error) {
	certs, err := pkcs12.DecodeTrustStore(data, password)
	if err == nil {
		return certs, nil
	}

	// A credential file rather than a trust store: trust what it carries.
	_, leaf, chain, chainErr := pkcs12.DecodeChain(data, password)
	if chainErr != nil {
		return nil, err
	}
	return append([]*x509.Certificate{leaf}, chain...), nil
}
