// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509csr

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"slices"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/posix"
	x509dn "github.com/slcs/org.glite.slcs.common/src/internal/x509/dn"
	x509ext "github.com/slcs/org.glite.slcs.common/src/internal/x509/extension"
	x509provider "github.com/slcs/org.glite.slcs.common/src/internal/x509/provider"
	"github.com/slcs/org.glite.slcs.common/src/logger"
)

// PEM block types for certificate requests. The second form is written by
// some older tools and is accepted on input.
const (
	BlockCertificateRequest    = "CERTIFICATE REQUEST"
	BlockNewCertificateRequest = "NEW CERTIFICATE REQUEST"
)

var (
	// ErrSignature indicates a request whose signature does not verify.
	ErrSignature = errors.New("x509csr: signature verification failed")

	// ErrDecode indicates malformed PEM or DER input.
	ErrDecode = errors.New("x509csr: cannot decode certificate request")

	// ErrDuplicateExtension indicates two extensions with the same OID.
	ErrDuplicateExtension = errors.New("x509csr: duplicate extension")

	// ErrKeyMismatch indicates a public key that does not belong to the
	// signing key.
	ErrKeyMismatch = errors.New("x509csr: public key does not match private key")
)

// Request is a signed certificate request whose signature has been
// verified. It is immutable.
type Request struct {
	csr        *x509.CertificateRequest
	subject    *x509dn.Name
	extensions []x509ext.Extension
}

// Builder signs new certificate requests with the provider's signature
// algorithm.
type Builder struct {
	provider *x509provider.Provider
	log      logger.Logger
}

// NewBuilder returns a Builder. A nil provider selects
// [x509provider.Default] and a nil log discards messages.
func NewBuilder(p *x509provider.Provider, log logger.Logger) *Builder {
	if p == nil {
		p = x509provider.Default()
	}
	return &Builder{provider: p, log: logger.OrDiscard(log)}
}

// Create signs a request for subject and pub with priv, carrying exts.
//
// The new request is parsed back and its signature verified before it is
// returned; a failure there is reported as [ErrSignature].
func (b *Builder) Create(subject *x509dn.Name, pub crypto.PublicKey, priv crypto.Signer, exts []x509ext.Extension) (*Request, error) {
	if subject == nil {
		subject = x509dn.New()
	}
	if priv == nil {
		return nil, fmt.Errorf("%w: missing private key", ErrKeyMismatch)
	}
	if pub != nil {
		eq, ok := pub.(interface{ Equal(crypto.PublicKey) bool })
		if !ok || !eq.Equal(priv.Public()) {
			return nil, ErrKeyMismatch
		}
	}

	if err := checkDuplicates(exts); err != nil {
		return nil, err
	}

	rawSubject, err := subject.Marshal()
	if err != nil {
		return nil, err
	}

	template := &x509.CertificateRequest{
		RawSubject:         rawSubject,
		SignatureAlgorithm: b.provider.SignatureAlgorithm,
		ExtraExtensions:    x509ext.PKIXList(exts),
	}

	der, err := x509.CreateCertificateRequest(b.provider.Random(), template, priv)
	if err != nil {
		return nil, fmt.Errorf("x509csr: cannot sign request: %w", err)
	}

	csr, err := parse(der)
	if err != nil {
		return nil, err
	}

	b.log.Debugf("created certificate request for %q signed with %v", subject, csr.SignatureAlgorithm)

	return &Request{
		csr:        csr,
		subject:    subject,
		extensions: x509ext.FromPKIXList(csr.Extensions),
	}, nil
}

// checkDuplicates rejects a second extension with an OID already present.
func checkDuplicates(exts []x509ext.Extension) error {
	for i, e := range exts {
		for _, prev := range exts[:i] {
			if e.OID.Equal(prev.OID) {
				return fmt.Errorf("%w: %s", ErrDuplicateExtension, e.OID)
			}
		}
	}
	return nil
}

// Load decodes a PEM or DER encoded request and verifies its signature.
// Requests signed with older algorithms such as SHA1WithRSA are accepted.
func Load(data []byte) (*Request, error) {
	der, err := decodePEM(data)
	if err != nil {
		return nil, err
	}

	csr, err := parse(der)
	if err != nil {
		return nil, err
	}

	subject, err := x509dn.Unmarshal(csr.RawSubject)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &Request{
		csr:        csr,
		subject:    subject,
		extensions: x509ext.FromPKIXList(csr.Extensions),
	}, nil
}

// LoadFile reads and verifies a request file. See [Load].
func LoadFile(path string) (*Request, error) {
	data, err := posix.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// decodePEM returns the DER bytes of the first request block, or data
// unchanged when it is not PEM.
func decodePEM(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	if !bytes.HasPrefix(trimmed, []byte("-----BEGIN")) && !bytes.Contains(trimmed, []byte("\n-----BEGIN")) {
		return data, nil
	}

	for rest := data; len(rest) > 0; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type == BlockCertificateRequest || block.Type == BlockNewCertificateRequest {
			return block.Bytes, nil
		}
	}

	return nil, fmt.Errorf("%w: no %s block found", ErrDecode, BlockCertificateRequest)
}

func parse(der []byte) (*x509.CertificateRequest, error) {
	csr, err := x509.ParseCertificateRequest(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := csr.CheckSignature(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignature, err)
	}
	return csr, nil
}

// Subject returns the requested subject.
func (r *Request) Subject() *x509dn.Name { return r.subject }

// PublicKey returns the public key embedded in the request.
func (r *Request) PublicKey() crypto.PublicKey { return r.csr.PublicKey }

// SignatureAlgorithm returns the algorithm the request was signed with.
func (r *Request) SignatureAlgorithm() x509.SignatureAlgorithm { return r.csr.SignatureAlgorithm }

// Extensions returns the requested extensions with their criticality, as
// decoded from the extensionRequest attribute.
func (r *Request) Extensions() []x509ext.Extension { return slices.Clone(r.extensions) }

// Extension returns the requested extension of the given kind.
func (r *Request) Extension(kind x509ext.Kind) (x509ext.Extension, bool) {
	for _, e := range r.extensions {
		if e.Kind == kind {
			return e, true
		}
	}
	return x509ext.Extension{}, false
}

// CertificateRequest returns the parsed request.
func (r *Request) CertificateRequest() *x509.CertificateRequest { return r.csr }

// DER returns a copy of the DER encoding.
func (r *Request) DER() []byte { return bytes.Clone(r.csr.Raw) }

// PEM returns the request as a "CERTIFICATE REQUEST" PEM block.
func (r *Request) PEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: BlockCertificateRequest, Bytes: r.csr.Raw})
}

// StorePEM writes the PEM form to path, readable by owner and group.
func (r *Request) StorePEM(path string, log logger.Logger) error {
	return posix.WriteFile(path, r.PEM(), posix.ModePublic, log)
}

// StoreDER writes the DER form to path, readable by owner and group.
func (r *Request) StoreDER(path string, log logger.Logger) error {
	return posix.WriteFile(path, r.csr.Raw, posix.ModePublic, log)
}
