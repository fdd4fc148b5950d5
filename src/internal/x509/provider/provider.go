// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509provider

import (
	"crypto/rand"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// DefaultKeyBits is the RSA modulus size used when a caller does not ask for one.
	DefaultKeyBits = 2048

	// DefaultMinKeyBits is the smallest RSA modulus accepted by key generation.
	DefaultMinKeyBits = 2048

	// DefaultSignatureAlgorithm signs new certificate requests.
	DefaultSignatureAlgorithm = x509.SHA256WithRSA

	// DefaultPEMCipher encrypts password protected private keys.
	DefaultPEMCipher = x509.PEMCipherAES256
)

var (
	// ErrUnknownSignatureAlgorithm indicates an unsupported signature algorithm name.
	ErrUnknownSignatureAlgorithm = errors.New("x509provider: unknown signature algorithm")

	// ErrUnknownCipher indicates an unsupported private key cipher name.
	ErrUnknownCipher = errors.New("x509provider: unknown PEM cipher")

	// ErrInvalidKeyBits indicates an out of range RSA modulus size.
	ErrInvalidKeyBits = errors.New("x509provider: invalid key size")
)

// Provider is the algorithm registry handed to the key, request and trust
// constructors. It replaces process wide provider registration: every
// cryptographic choice the client makes is read from here.
//
// A Provider is not modified by the packages that receive it and can be
// shared between goroutines once built.
type Provider struct {
	// Rand is the entropy source for key generation, signing and PEM encryption.
	Rand io.Reader
	// KeyBits is the RSA modulus size used when the caller passes zero.
	KeyBits int
	// MinKeyBits rejects weaker explicit requests.
	MinKeyBits int
	// SignatureAlgorithm signs new certificate requests. Older algorithms
	// remain readable regardless of this value.
	SignatureAlgorithm x509.SignatureAlgorithm
	// PEMCipher encrypts password protected private keys.
	PEMCipher x509.PEMCipher
}

// Default returns a Provider with the current recommended algorithms.
func Default() *Provider {
	return &Provider{
		Rand:               rand.Reader,
		KeyBits:            DefaultKeyBits,
		MinKeyBits:         DefaultMinKeyBits,
		SignatureAlgorithm: DefaultSignatureAlgorithm,
		PEMCipher:          DefaultPEMCipher,
	}
}

// Random returns the configured entropy source, falling back to crypto/rand.
func (p *Provider) Random() io.Reader {
	if p == nil || p.Rand == nil {
		return rand.Reader
	}
	return p.Rand
}

// ResolveKeyBits returns the modulus size for a generation request.
// Zero selects KeyBits; values below MinKeyBits are rejected.
func (p *Provider) ResolveKeyBits(bits int) (int, error) {
	if p == nil {
		p = Default()
	}
	if bits == 0 {
		bits = p.KeyBits
	}
	if bits == 0 {
		bits = DefaultKeyBits
	}
	if bits < p.MinKeyBits || bits%8 != 0 || bits > 16384 {
		return 0, fmt.Errorf("%w: %d bits (minimum %d)", ErrInvalidKeyBits, bits, p.MinKeyBits)
	}
	return bits, nil
}

// signatureAlgorithms lists the algorithms that may sign new requests.
// SHA-1 and MD5 based algorithms are only accepted when reading.
var signatureAlgorithms = map[string]x509.SignatureAlgorithm{
	"SHA256-RSA":           x509.SHA256WithRSA,
	"SHA384-RSA":           x509.SHA384WithRSA,
	"SHA512-RSA":           x509.SHA512WithRSA,
	"SHA256-RSAPSS":        x509.SHA256WithRSAPSS,
	"SHA384-RSAPSS":        x509.SHA384WithRSAPSS,
	"SHA512-RSAPSS":        x509.SHA512WithRSAPSS,
	"SHA256WITHRSA":        x509.SHA256WithRSA,
	"SHA384WITHRSA":        x509.SHA384WithRSA,
	"SHA512WITHRSA":        x509.SHA512WithRSA,
	"SHA256WITHRSAANDMGF1": x509.SHA256WithRSAPSS,
}

// ParseSignatureAlgorithm maps a configuration name such as "SHA256-RSA" or
// the JCA style "SHA256WithRSA" to a signing algorithm. Matching ignores case.
func ParseSignatureAlgorithm(name string) (x509.SignatureAlgorithm, error) {
	if alg, ok := signatureAlgorithms[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return alg, nil
	}
	return x509.UnknownSignatureAlgorithm, fmt.Errorf("%w: %q", ErrUnknownSignatureAlgorithm, name)
}

// pemCiphers maps OpenSSL DEK-Info names to ciphers. DES-EDE3-CBC is kept so
// that configuration written for older deployments still loads.
var pemCiphers = map[string]x509.PEMCipher{
	"AES-128-CBC":  x509.PEMCipherAES128,
	"AES-192-CBC":  x509.PEMCipherAES192,
	"AES-256-CBC":  x509.PEMCipherAES256,
	"AES128":       x509.PEMCipherAES128,
	"AES192":       x509.PEMCipherAES192,
	"AES256":       x509.PEMCipherAES256,
	"DES-EDE3-CBC": x509.PEMCipher3DES,
	"DESEDE":       x509.PEMCipher3DES,
}

// ParsePEMCipher maps a cipher name such as "AES-256-CBC" to a PEM cipher.
func ParsePEMCipher(name string) (x509.PEMCipher, error) {
	if c, ok := pemCiphers[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCipher, name)
}
