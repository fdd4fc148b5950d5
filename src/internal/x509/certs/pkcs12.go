// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/posix"
	"github.com/slcs/org.glite.slcs.common/src/logger"
	"software.sslmate.com/src/go-pkcs12"
)

// ErrPKCS12 indicates a PKCS#12 file that cannot be written or read.
var ErrPKCS12 = errors.New("x509certs: PKCS#12 failure")

// EncodePKCS12 packs key, the leaf and the chain into a password protected
// PKCS#12 file, the form browsers and grid tools import credentials from.
func (b *Bundle) EncodePKCS12(key crypto.PrivateKey, password string) ([]byte, error) {
	data, err := pkcs12.Modern.Encode(key, b.leaf, b.chain, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPKCS12, err)
	}
	return data, nil
}

// StorePKCS12 writes EncodePKCS12 output to path with owner-only
// permissions, since the file holds the private key.
func (b *Bundle) StorePKCS12(path string, key crypto.PrivateKey, password string, log logger.Logger) error {
	data, err := b.EncodePKCS12(key, password)
	if err != nil {
		return err
	}
	return posix.WriteFile(path, data, posix.ModePrivateKey, log)
}

// DecodePKCS12 reads a key and certificate bundle from PKCS#12 data.
func DecodePKCS12(data []byte, password string) (crypto.PrivateKey, *Bundle, error) {
	key, leaf, chain, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrPKCS12, err)
	}
	bundle, err := NewBundle(leaf, chain...)
	if err != nil {
		return nil, nil, err
	}
	return key, bundle, nil
}
