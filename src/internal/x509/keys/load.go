// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509keys

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/youmark/pkcs8"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/posix"
	x509provider "github.com/slcs/org.glite.slcs.common/src/internal/x509/provider"
)

// errPKCS8Password is the message pkcs8 reports when decryption yields no key.
const errPKCS8Password = "pkcs8: incorrect password"

// LoadPrivatePEM decodes the first private key block in data.
//
// PKCS#1 and PKCS#8 blocks are accepted. Encrypted PKCS#1 blocks may use any
// cipher crypto/x509 knows; encrypted PKCS#8 blocks must use PBES2, as
// written by current OpenSSL releases. The password is kept on the returned
// KeyMaterial so a later export is protected the same way.
func LoadPrivatePEM(p *x509provider.Provider, data, password []byte) (*KeyMaterial, error) {
	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		data = rest

		switch block.Type {
		case BlockRSAPrivateKey, BlockPrivateKey, BlockEncryptedPrivateKey:
			key, err := decodeBlock(block, password)
			if err != nil {
				return nil, err
			}
			return New(p, key, password)
		}
	}

	return nil, fmt.Errorf("%w: no private key block found", ErrDecode)
}

// LoadPrivateFile reads a private key file. See [LoadPrivatePEM].
func LoadPrivateFile(p *x509provider.Provider, path string, password []byte) (*KeyMaterial, error) {
	data, err := posix.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer wipe(data)

	return LoadPrivatePEM(p, data, password)
}

func decodeBlock(block *pem.Block, password []byte) (*rsa.PrivateKey, error) {
	if block.Type == BlockEncryptedPrivateKey {
		return decodeEncryptedPKCS8(block.Bytes, password)
	}

	der := block.Bytes
	encrypted := x509.IsEncryptedPEMBlock(block)

	if encrypted {
		if len(password) == 0 {
			return nil, fmt.Errorf("%w: key is encrypted", ErrIncorrectPassword)
		}

		var err error
		der, err = x509.DecryptPEMBlock(block, password)
		if errors.Is(err, x509.IncorrectPasswordError) {
			return nil, ErrIncorrectPassword
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		defer wipe(der)
	}

	if block.Type == BlockRSAPrivateKey {
		key, err := x509.ParsePKCS1PrivateKey(der)
		if err != nil {
			// A wrong password only shows up as garbage after decryption
			// when the padding happened to check out.
			if encrypted {
				return nil, ErrIncorrectPassword
			}
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return rsaKey(parsed)
}

func decodeEncryptedPKCS8(der, password []byte) (*rsa.PrivateKey, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: key is encrypted", ErrIncorrectPassword)
	}

	parsed, err := pkcs8.ParsePKCS8PrivateKey(der, password)
	if err != nil {
		if err.Error() == errPKCS8Password {
			return nil, ErrIncorrectPassword
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return rsaKey(parsed)
}

func rsaKey(parsed any) (*rsa.PrivateKey, error) {
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, parsed)
	}
	return key, nil
}
