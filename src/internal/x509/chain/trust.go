// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bytes"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"slices"

	"github.com/slcs/org.glite.slcs.common/src/logger"
)

var (
	// ErrUntrusted matches every [TrustError].
	ErrUntrusted = errors.New("x509chain: certificate chain is not trusted")

	// ErrEmptyChain indicates a peer that presented no certificate.
	ErrEmptyChain = errors.New("x509chain: empty certificate chain")

	// ErrNilCertificate indicates a chain with a nil member.
	ErrNilCertificate = errors.New("x509chain: nil certificate in chain")
)

// TrustError reports a chain rejected by the platform delegate and by the
// trusted issuer walk. Err is the delegate's original rejection.
type TrustError struct {
	Err error
}

func (e *TrustError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUntrusted, e.Err)
}

func (e *TrustError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrUntrusted].
func (e *TrustError) Is(target error) bool { return target == ErrUntrusted }

// Delegate is the platform trust decision the [Evaluator] extends.
type Delegate interface {
	CheckServerTrusted(chain []*x509.Certificate) error
	CheckClientTrusted(chain []*x509.Certificate) error
	AcceptedIssuers() []*x509.Certificate
}

// SystemDelegate verifies chains with [x509.Certificate.Verify]. The first
// element is the leaf; the rest are offered as intermediates.
type SystemDelegate struct {
	roots   *x509.CertPool
	anchors []*x509.Certificate
}

// NewSystemDelegate returns a delegate anchored on roots, or on the
// operating system's trust store when roots has no non-nil entry.
func NewSystemDelegate(roots ...*x509.Certificate) *SystemDelegate {
	d := &SystemDelegate{}
	for _, root := range roots {
		if root == nil {
			continue
		}
		if d.roots == nil {
			d.roots = x509.NewCertPool()
		}
		d.roots.AddCert(root)
		d.anchors = append(d.anchors, root)
	}
	return d
}

// checkMembers rejects an empty chain or one with a nil member.
func checkMembers(chain []*x509.Certificate) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}
	if i := slices.Index(chain, nil); i >= 0 {
		return fmt.Errorf("%w: position %d", ErrNilCertificate, i)
	}
	return nil
}

func (d *SystemDelegate) verify(chain []*x509.Certificate, usage x509.ExtKeyUsage) error {
	if err := checkMembers(chain); err != nil {
		return err
	}

	intermediates := x509.NewCertPool()
	for _, cert := range chain[1:] {
		intermediates.AddCert(cert)
	}

	_, err := chain[0].Verify(x509.VerifyOptions{
		Roots:         d.roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{usage},
	})
	return err
}

// CheckServerTrusted verifies a server chain for TLS server authentication.
func (d *SystemDelegate) CheckServerTrusted(chain []*x509.Certificate) error {
	return d.verify(chain, x509.ExtKeyUsageServerAuth)
}

// CheckClientTrusted verifies a client chain for TLS client authentication.
func (d *SystemDelegate) CheckClientTrusted(chain []*x509.Certificate) error {
	return d.verify(chain, x509.ExtKeyUsageClientAuth)
}

// AcceptedIssuers returns the explicit roots. The operating system pool
// cannot be enumerated, so it is empty for a system-anchored delegate.
func (d *SystemDelegate) AcceptedIssuers() []*x509.Certificate {
	return slices.Clone(d.anchors)
}

// IssuerSet is an immutable snapshot of locally trusted certificates.
// It is safe for concurrent use.
type IssuerSet struct {
	certs []*x509.Certificate
}

// NewIssuerSet snapshots certs, skipping nil entries.
func NewIssuerSet(certs ...*x509.Certificate) *IssuerSet {
	s := &IssuerSet{certs: make([]*x509.Certificate, 0, len(certs))}
	for _, cert := range certs {
		if cert != nil {
			s.certs = append(s.certs, cert)
		}
	}
	return s
}

// Len returns the number of trusted certificates.
func (s *IssuerSet) Len() int { return len(s.certs) }

// Certificates returns a copy of the trusted certificates.
func (s *IssuerSet) Certificates() []*x509.Certificate { return slices.Clone(s.certs) }

// Contains reports whether cert is byte-for-byte one of the trusted certificates.
func (s *IssuerSet) Contains(cert *x509.Certificate) bool {
	return slices.ContainsFunc(s.certs, func(t *x509.Certificate) bool {
		return bytes.Equal(t.Raw, cert.Raw)
	})
}

// SignedBy returns the trusted certificate whose public key verifies the
// signature on cert, or nil. Names, key usage and validity are not checked.
func (s *IssuerSet) SignedBy(cert *x509.Certificate) *x509.Certificate {
	for _, t := range s.certs {
		if t.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil {
			return t
		}
	}
	return nil
}

// Source tells which rule accepted a chain.
type Source int

const (
	// SourceDelegate means the platform delegate accepted the chain.
	SourceDelegate Source = iota
	// SourceTrustedMember means a chain certificate is in the trusted set.
	SourceTrustedMember
	// SourceTrustedIssuer means a trusted certificate signed a chain certificate.
	SourceTrustedIssuer
)

func (s Source) String() string {
	switch s {
	case SourceDelegate:
		return "platform"
	case SourceTrustedMember:
		return "trusted certificate"
	case SourceTrustedIssuer:
		return "signed by trusted issuer"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Verdict describes an accepted chain. Index and Anchor are set only when
// the trusted set decided: Index is the matched chain position and Anchor
// the trusted certificate that matched it.
type Verdict struct {
	Source Source
	Index  int
	Anchor *x509.Certificate
}

// Evaluator layers a local [IssuerSet] over a platform [Delegate]. The set
// only adds trust for server chains; client chains go to the delegate alone.
type Evaluator struct {
	delegate Delegate
	trusted  *IssuerSet
	log      logger.Logger
}

// NewEvaluator returns an evaluator over delegate and trusted. A nil
// trusted set behaves as an empty one.
func NewEvaluator(delegate Delegate, trusted *IssuerSet, log logger.Logger) *Evaluator {
	if trusted == nil {
		trusted = NewIssuerSet()
	}
	log = logger.OrDiscard(log)

	log.Debugf("trusted issuers: %d", trusted.Len())
	for _, cert := range trusted.certs {
		dumpCertificate(log, cert)
	}

	return &Evaluator{delegate: delegate, trusted: trusted, log: log}
}

// Trusted returns the evaluator's trusted set.
func (e *Evaluator) Trusted() *IssuerSet { return e.trusted }

// Evaluate decides a server chain, leaf first.
//
// The delegate is consulted first and its acceptance is final. After a
// rejection the chain is walked from the root end toward the leaf; the
// first certificate that is trusted, or signed by a trusted certificate,
// accepts the chain. Otherwise the delegate's rejection is returned inside
// a [TrustError]. A chain with a nil member is rejected before either step.
func (e *Evaluator) Evaluate(chain []*x509.Certificate) (Verdict, error) {
	if slices.Contains(chain, nil) {
		return Verdict{}, &TrustError{Err: checkMembers(chain)}
	}

	delegateErr := e.delegate.CheckServerTrusted(chain)
	if delegateErr == nil {
		return Verdict{Source: SourceDelegate, Index: -1}, nil
	}
	e.log.Debugf("platform rejected chain: %v", delegateErr)

	for i := len(chain) - 1; i >= 0; i-- {
		cert := chain[i]
		if e.trusted.Contains(cert) {
			e.log.Debugf("chain[%d] %q is a trusted certificate", i, cert.Subject.String())
			return Verdict{Source: SourceTrustedMember, Index: i, Anchor: cert}, nil
		}
		if issuer := e.trusted.SignedBy(cert); issuer != nil {
			e.log.Debugf("chain[%d] %q is signed by trusted %q", i, cert.Subject.String(), issuer.Subject.String())
			return Verdict{Source: SourceTrustedIssuer, Index: i, Anchor: issuer}, nil
		}
	}

	return Verdict{}, &TrustError{Err: delegateErr}
}

// CheckServerTrusted returns nil when [Evaluator.Evaluate] accepts chain.
func (e *Evaluator) CheckServerTrusted(chain []*x509.Certificate) error {
	_, err := e.Evaluate(chain)
	return err
}

// CheckClientTrusted asks the delegate only.
func (e *Evaluator) CheckClientTrusted(chain []*x509.Certificate) error {
	if slices.Contains(chain, nil) {
		return &TrustError{Err: checkMembers(chain)}
	}
	if err := e.delegate.CheckClientTrusted(chain); err != nil {
		return &TrustError{Err: err}
	}
	return nil
}

// AcceptedIssuers returns the delegate's issuers followed by the trusted
// set. Duplicates are kept.
func (e *Evaluator) AcceptedIssuers() []*x509.Certificate {
	return slices.Concat(e.delegate.AcceptedIssuers(), e.trusted.certs)
}

func dumpCertificate(log logger.Logger, cert *x509.Certificate) {
	sum := sha256.Sum256(cert.Raw)
	log.Debugf("certificate: subject=%q issuer=%q notBefore=%s notAfter=%s sha256=%X",
		cert.Subject.String(), cert.Issuer.String(),
		cert.NotBefore.UTC().Format("2006-01-02T15:04:05Z"),
		cert.NotAfter.UTC().Format("2006-01-02T15:04:05Z"),
		sum[:])
}
