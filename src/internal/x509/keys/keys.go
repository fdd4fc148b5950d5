// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509keys

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/youmark/pkcs8"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/posix"
	x509provider "github.com/slcs/org.glite.slcs.common/src/internal/x509/provider"
	"github.com/slcs/org.glite.slcs.common/src/logger"
)

// PEM block types.
const (
	BlockRSAPrivateKey       = "RSA PRIVATE KEY"
	BlockPrivateKey          = "PRIVATE KEY"
	BlockEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	BlockPublicKey           = "PUBLIC KEY"
)

var (
	// ErrKeyGeneration indicates that the key pair could not be generated.
	ErrKeyGeneration = errors.New("x509keys: key generation failed")

	// ErrDecode indicates data that does not hold a usable private key.
	ErrDecode = errors.New("x509keys: cannot decode private key")

	// ErrIncorrectPassword indicates an encrypted key that the given password
	// does not open.
	ErrIncorrectPassword = errors.New("x509keys: incorrect password")

	// ErrUnsupportedKey indicates a private key that is not RSA.
	ErrUnsupportedKey = errors.New("x509keys: unsupported key type")

	// ErrDestroyed indicates use of key material after Destroy.
	ErrDestroyed = errors.New("x509keys: key material destroyed")
)

// KeyMaterial is an RSA key pair with an optional password protecting the
// private key on export. The key pair never changes once created, only the
// password does.
//
// KeyMaterial is safe for concurrent use.
type KeyMaterial struct {
	mu       sync.RWMutex
	key      *rsa.PrivateKey
	password []byte
	cipher   x509.PEMCipher
	rand     io.Reader
}

// Generate creates an RSA key pair of the given size. A size of zero selects
// the provider's default. The password may be nil.
func Generate(p *x509provider.Provider, bits int, password []byte) (*KeyMaterial, error) {
	if p == nil {
		p = x509provider.Default()
	}

	bits, err := p.ResolveKeyBits(bits)
	if err != nil {
		return nil, err
	}

	key, err := rsa.GenerateKey(p.Random(), bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	return newKeyMaterial(p, key, password), nil
}

// New wraps an existing RSA private key.
func New(p *x509provider.Provider, key *rsa.PrivateKey, password []byte) (*KeyMaterial, error) {
	if p == nil {
		p = x509provider.Default()
	}
	if key == nil {
		return nil, fmt.Errorf("%w: nil key", ErrDecode)
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return newKeyMaterial(p, key, password), nil
}

func newKeyMaterial(p *x509provider.Provider, key *rsa.PrivateKey, password []byte) *KeyMaterial {
	cipher := p.PEMCipher
	if cipher == 0 {
		cipher = x509provider.DefaultPEMCipher
	}
	return &KeyMaterial{
		key:      key,
		password: clone(password),
		cipher:   cipher,
		rand:     p.Random(),
	}
}

// Public returns the public key, or nil after Destroy.
func (k *KeyMaterial) Public() *rsa.PublicKey {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.key == nil {
		return nil
	}
	return &k.key.PublicKey
}

// Signer returns the private key for signing, or nil after Destroy.
func (k *KeyMaterial) Signer() crypto.Signer {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.key == nil {
		return nil
	}
	return k.key
}

// Bits returns the modulus size, or zero after Destroy.
func (k *KeyMaterial) Bits() int {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.key == nil {
		return 0
	}
	return k.key.N.BitLen()
}

// SetPassword replaces the export password. A nil or empty password makes
// PrivatePEM write an unencrypted key.
func (k *KeyMaterial) SetPassword(password []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()

	wipe(k.password)
	k.password = clone(password)
}

// HasPassword reports whether exports are encrypted.
func (k *KeyMaterial) HasPassword() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return len(k.password) > 0
}

// PrivatePEM encodes the private key as an "RSA PRIVATE KEY" PEM block,
// encrypted when a password is set.
func (k *KeyMaterial) PrivatePEM() ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.key == nil {
		return nil, ErrDestroyed
	}

	der := x509.MarshalPKCS1PrivateKey(k.key)
	defer wipe(der)

	if len(k.password) == 0 {
		return pem.EncodeToMemory(&pem.Block{Type: BlockRSAPrivateKey, Bytes: der}), nil
	}

	block, err := x509.EncryptPEMBlock(k.rand, BlockRSAPrivateKey, der, k.password, k.cipher)
	if err != nil {
		return nil, fmt.Errorf("x509keys: cannot encrypt private key: %w", err)
	}
	return pem.EncodeToMemory(block), nil
}

// PKCS8PEM encodes the private key as PKCS#8. With a password set the block
// is an "ENCRYPTED PRIVATE KEY" protected by PBES2 with PBKDF2 and the
// provider's AES or 3DES cipher in CBC mode; otherwise it is a plain
// "PRIVATE KEY" block.
func (k *KeyMaterial) PKCS8PEM() ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.key == nil {
		return nil, ErrDestroyed
	}

	if len(k.password) == 0 {
		der, err := x509.MarshalPKCS8PrivateKey(k.key)
		if err != nil {
			return nil, fmt.Errorf("x509keys: cannot encode private key: %w", err)
		}
		defer wipe(der)
		return pem.EncodeToMemory(&pem.Block{Type: BlockPrivateKey, Bytes: der}), nil
	}

	der, err := pkcs8.MarshalPrivateKey(k.key, k.password, &pkcs8.Opts{
		Cipher:  pkcs8Cipher(k.cipher),
		KDFOpts: pkcs8.DefaultOpts.KDFOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("x509keys: cannot encrypt private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: BlockEncryptedPrivateKey, Bytes: der}), nil
}

func pkcs8Cipher(c x509.PEMCipher) pkcs8.Cipher {
	switch c {
	case x509.PEMCipherAES128:
		return pkcs8.AES128CBC
	case x509.PEMCipherAES192:
		return pkcs8.AES192CBC
	case x509.PEMCipher3DES:
		return pkcs8.TripleDESCBC
	default:
		return pkcs8.AES256CBC
	}
}

// PublicPEM encodes the public key as a PKIX "PUBLIC KEY" PEM block.
func (k *KeyMaterial) PublicPEM() ([]byte, error) {
	pub := k.Public()
	if pub == nil {
		return nil, ErrDestroyed
	}

	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("x509keys: cannot encode public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: BlockPublicKey, Bytes: der}), nil
}

// StorePrivatePEM writes PrivatePEM to path with owner-only permissions. A
// failure to set the permissions is logged and the key is written anyway.
func (k *KeyMaterial) StorePrivatePEM(path string, log logger.Logger) error {
	return k.store(path, k.PrivatePEM, log)
}

// StorePKCS8PEM writes PKCS8PEM to path like [KeyMaterial.StorePrivatePEM].
func (k *KeyMaterial) StorePKCS8PEM(path string, log logger.Logger) error {
	return k.store(path, k.PKCS8PEM, log)
}

func (k *KeyMaterial) store(path string, encode func() ([]byte, error), log logger.Logger) error {
	data, err := encode()
	if err != nil {
		return err
	}
	defer wipe(data)

	return posix.WriteFile(path, data, posix.ModePrivateKey, log)
}

// Destroy clears the password and drops the key pair. Later calls that need
// the key fail with [ErrDestroyed].
func (k *KeyMaterial) Destroy() {
	k.mu.Lock()
	defer k.mu.Unlock()

	wipe(k.password)
	k.password = nil
	if k.key != nil {
		k.key.D.SetInt64(0)
		for _, p := range k.key.Primes {
			p.SetInt64(0)
		}
		k.key = nil
	}
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}

func wipe(b []byte) {
	clear(b)
}
