// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bytes"
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/gc"
	x509certs "github.com/slcs/org.glite.slcs.common/src/internal/x509/certs"
)

// ErrIssuerFetch indicates an AIA download that failed or returned something
// other than the issuer certificate.
var ErrIssuerFetch = errors.New("x509chain: cannot fetch issuer certificate")

// HTTPConfig holds HTTP client configuration for issuer downloads.
type HTTPConfig struct {
	Timeout   time.Duration // HTTP request timeout
	Version   string        // Application version for User-Agent
	UserAgent string        // Custom User-Agent string, if empty will be constructed from Version

	mu     sync.Mutex
	client *http.Client
}

// NewHTTPConfig creates a new HTTP configuration with a 10 second timeout.
func NewHTTPConfig(version string) *HTTPConfig {
	return &HTTPConfig{
		Timeout: 10 * time.Second,
		Version: version,
	}
}

// GetUserAgent returns the User-Agent string, constructing it if not set.
func (c *HTTPConfig) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return fmt.Sprintf("SLCS-Client/%s", c.Version)
}

// Client returns an HTTP client configured with the current timeout.
//
// Thread Safety: Safe for concurrent use.
func (c *HTTPConfig) Client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		c.client = &http.Client{Timeout: c.Timeout}
		return c.client
	}

	if c.client.Timeout != c.Timeout {
		c.client.Timeout = c.Timeout
	}

	return c.client
}

// Chain is an ordered certificate path, leaf first, as presented by a peer
// or returned by a certificate authority.
type Chain struct {
	mu    sync.RWMutex
	Certs []*x509.Certificate
	*x509certs.Certificate
	HTTPConfig *HTTPConfig // HTTP client configuration
}

// New creates a Chain starting with leaf, followed by chain.
func New(version string, leaf *x509.Certificate, chain ...*x509.Certificate) *Chain {
	return &Chain{
		Certs:       append([]*x509.Certificate{leaf}, chain...),
		Certificate: x509certs.New(),
		HTTPConfig:  NewHTTPConfig(version),
	}
}

// FromBundle creates a Chain from an issued certificate bundle.
func FromBundle(b *x509certs.Bundle, version string) *Chain {
	return New(version, b.Leaf(), b.Chain()...)
}

// Certificates returns a copy of the chain.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Certificates() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return slices.Clone(ch.Certs)
}

// FetchCertificate completes the chain by following the Authority
// Information Access issuer URL of its last certificate until a
// self-signed certificate is reached or no URL remains. Each downloaded
// certificate must have signed its predecessor.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) FetchCertificate(ctx context.Context) error {
	for {
		ch.mu.RLock()
		last := ch.Certs[len(ch.Certs)-1]
		ch.mu.RUnlock()

		if ch.IsRootNode(last) || len(last.IssuingCertificateURL) == 0 {
			return nil
		}

		cert, err := ch.fetchIssuer(ctx, last.IssuingCertificateURL[0])
		if err != nil {
			return err
		}
		if err := last.CheckSignatureFrom(cert); err != nil {
			return fmt.Errorf("%w: %s did not sign %q: %w", ErrIssuerFetch,
				cert.Subject.String(), last.Subject.String(), err)
		}

		ch.mu.Lock()
		if ch.Certs[len(ch.Certs)-1] != last {
			ch.mu.Unlock()
			continue
		}
		if slices.ContainsFunc(ch.Certs, func(c *x509.Certificate) bool { return bytes.Equal(c.Raw, cert.Raw) }) {
			ch.mu.Unlock()
			return fmt.Errorf("%w: issuer loop at %q", ErrIssuerFetch, cert.Subject.String())
		}
		ch.Certs = append(ch.Certs, cert)
		ch.mu.Unlock()
	}
}

func (ch *Chain) fetchIssuer(ctx context.Context, url string) (*x509.Certificate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIssuerFetch, err)
	}
	req.Header.Set("User-Agent", ch.HTTPConfig.GetUserAgent())

	resp, err := ch.HTTPConfig.Client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIssuerFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrIssuerFetch, url, resp.Status)
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIssuerFetch, err)
	}

	cert, err := ch.Certificate.Decode(bytes.Clone(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIssuerFetch, url, err)
	}
	return cert, nil
}

// IsSelfSigned checks if a certificate is self-signed.
func (ch *Chain) IsSelfSigned(cert *x509.Certificate) bool {
	return cert.CheckSignatureFrom(cert) == nil
}

// IsRootNode determines if a certificate is a root node in the chain.
func (ch *Chain) IsRootNode(cert *x509.Certificate) bool {
	return ch.IsSelfSigned(cert)
}

// FilterIntermediates returns every certificate except the leaf and a
// self-signed last certificate.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) FilterIntermediates() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	end := len(ch.Certs)
	if end > 1 && ch.IsRootNode(ch.Certs[end-1]) {
		end--
	}
	if end <= 1 {
		return nil
	}
	return slices.Clone(ch.Certs[1:end])
}
