// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain_test

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var version = "1.3.3.7-testing"

var serial atomic.Int64

type node struct {
	cert *x509.Certificate
	key  crypto.Signer
}

// pki is a throwaway root, intermediate and server leaf.
type pki struct {
	root, intermediate, leaf node
}

func (p pki) chain() []*x509.Certificate {
	return []*x509.Certificate{p.leaf.cert, p.intermediate.cert, p.root.cert}
}

func (p pki) tlsCertificate() tls.Certificate {
	return tls.Certificate{
		Certificate: [][]byte{p.leaf.cert.Raw, p.intermediate.cert.Raw},
		PrivateKey:  p.leaf.key,
		Leaf:        p.leaf.cert,
	}
}

func issue(t testing.TB, cn string, isCA bool, parent *node, modify func(*x509.Certificate)) node {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(serial.Add(1)),
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"SWITCH"}, Country: []string{"CH"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}
	if isCA {
		tmpl.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	} else {
		tmpl.KeyUsage = x509.KeyUsageDigitalSignature
		tmpl.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth}
		tmpl.DNSNames = []string{"localhost"}
		tmpl.IPAddresses = []net.IP{net.IPv4(127, 0, 0, 1)}
	}
	if modify != nil {
		modify(tmpl)
	}

	issuer, signer := tmpl, crypto.Signer(key)
	if parent != nil {
		issuer, signer = parent.cert, parent.key
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, issuer, key.Public(), signer)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return node{cert: cert, key: key}
}

func newPKI(t testing.TB) pki {
	t.Helper()

	root := issue(t, "Test Root CA", true, nil, nil)
	inter := issue(t, "Test SLCS CA", true, &root, nil)
	leaf := issue(t, "slcs.example.org", false, &inter, nil)
	return pki{root: root, intermediate: inter, leaf: leaf}
}
