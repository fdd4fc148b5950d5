// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"slices"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/gc"
	"github.com/slcs/org.glite.slcs.common/src/internal/helper/posix"
	"github.com/slcs/org.glite.slcs.common/src/logger"
)

// Bundle is an issued certificate together with the chain that came with
// it, leaf first, in the order they were read. It is immutable.
type Bundle struct {
	leaf  *x509.Certificate
	chain []*x509.Certificate
}

// NewBundle builds a bundle from a leaf and its chain.
func NewBundle(leaf *x509.Certificate, chain ...*x509.Certificate) (*Bundle, error) {
	if leaf == nil {
		return nil, ErrNoCertificateFound
	}
	return &Bundle{leaf: leaf, chain: slices.Clone(chain)}, nil
}

// ReadChain reads every certificate from r. The first becomes the leaf and
// the rest the chain.
func ReadChain(r io.Reader) (*Bundle, error) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()         // Reset the buffer to prevent data leaks
		gc.Default.Put(buf) // Return the buffer to the pool for reuse
	}()

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("x509certs: error reading certificates: %w", err)
	}

	return DecodeBundle(buf.Bytes())
}

// DecodeBundle decodes a bundle from PEM, concatenated DER or PKCS#7 data.
func DecodeBundle(data []byte) (*Bundle, error) {
	certs, err := New().DecodeMultiple(data)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, ErrNoCertificateFound
	}
	return &Bundle{leaf: certs[0], chain: certs[1:]}, nil
}

// LoadFile reads a bundle from a file. See [ReadChain].
func LoadFile(path string) (*Bundle, error) {
	data, err := posix.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeBundle(data)
}

// Leaf returns the issued certificate.
func (b *Bundle) Leaf() *x509.Certificate { return b.leaf }

// Chain returns the chain certificates in their original order. The slice
// is empty, not nil, for a leaf-only bundle.
func (b *Bundle) Chain() []*x509.Certificate {
	out := make([]*x509.Certificate, len(b.chain))
	copy(out, b.chain)
	return out
}

// Certificates returns the leaf followed by the chain.
func (b *Bundle) Certificates() []*x509.Certificate {
	return append([]*x509.Certificate{b.leaf}, b.chain...)
}

// WriteChain writes the leaf and then each chain certificate as a PEM block.
func (b *Bundle) WriteChain(w io.Writer) error {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	for _, cert := range b.Certificates() {
		if err := pem.Encode(buf, &pem.Block{Type: BlockCertificate, Bytes: cert.Raw}); err != nil {
			return fmt.Errorf("x509certs: cannot encode certificate: %w", err)
		}
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("x509certs: cannot write certificates: %w", err)
	}
	return nil
}

// PEM returns the WriteChain output.
func (b *Bundle) PEM() []byte {
	return New().EncodeMultiplePEM(b.Certificates())
}

// StorePEM writes the bundle to path, readable by owner and group.
func (b *Bundle) StorePEM(path string, log logger.Logger) error {
	return posix.WriteFile(path, b.PEM(), posix.ModePublic, log)
}
