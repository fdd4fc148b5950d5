// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509ext

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"strings"
	"unicode/utf8"

	x509oid "github.com/slcs/org.glite.slcs.common/src/internal/x509/oid"
	"github.com/slcs/org.glite.slcs.common/src/logger"
)

// Definition is an extension requested by name, as found in configuration.
type Definition struct {
	// Name is the extension keyword or dotted OID.
	Name string `json:"name" yaml:"name"`
	// Values is the comma separated value list.
	Values string `json:"values" yaml:"values"`
}

// Builder turns extension names and value lists into encoded extensions.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	log logger.Logger
}

// NewBuilder returns a Builder reporting skipped tokens to log. A nil log
// discards them.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{log: logger.OrDiscard(log)}
}

// Lookup resolves an extension keyword or dotted OID to its kind.
func Lookup(id string) (Kind, bool) {
	trimmed := strings.TrimSpace(id)
	for k := KeyUsage; k <= SubjectAltName; k++ {
		if strings.EqualFold(trimmed, k.String()) {
			return k, true
		}
	}
	if x509oid.IsDotted(trimmed) {
		if oid, err := x509oid.Parse(trimmed); err == nil {
			if k := kindOf(oid); k != Other {
				return k, true
			}
		}
	}
	return Other, false
}

// Build produces the extension named by id from a comma separated value
// list.
//
// Build fails with [ErrUnsupportedExtension] when id names no supported
// extension, and with [ErrEmptyExtension] when no token of values is
// recognized. Unrecognized tokens are otherwise logged and left out.
//
// KeyUsage is always critical, the other extensions never are.
func (b *Builder) Build(id, values string) (Extension, error) {
	kind, ok := Lookup(id)
	if !ok {
		return Extension{}, fmt.Errorf("%w: %q", ErrUnsupportedExtension, id)
	}

	tokens := tokenize(values)

	var (
		value       []byte
		description []string
		err         error
	)
	switch kind {
	case KeyUsage:
		value, description, err = b.keyUsage(tokens)
	case ExtendedKeyUsage:
		value, description, err = b.extKeyUsage(tokens)
	case CertificatePolicies:
		value, description, err = b.policies(tokens)
	case SubjectAltName:
		value, description, err = b.subjectAltName(tokens)
	}
	if err != nil {
		return Extension{}, fmt.Errorf("%s: %w", kind, err)
	}

	return Extension{
		Kind:        kind,
		OID:         kind.OID(),
		Name:        kind.String(),
		Critical:    kind == KeyUsage,
		Value:       value,
		Description: strings.Join(description, ","),
	}, nil
}

// BuildAll builds every definition in order.
func (b *Builder) BuildAll(defs ...Definition) ([]Extension, error) {
	exts := make([]Extension, 0, len(defs))
	for _, def := range defs {
		ext, err := b.Build(def.Name, def.Values)
		if err != nil {
			return nil, err
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

func (b *Builder) keyUsage(tokens []string) ([]byte, []string, error) {
	var (
		usage x509.KeyUsage
		names []string
	)
	for _, token := range tokens {
		ku, ok := lookupKeyUsage(token)
		if !ok {
			b.log.Warnf("KeyUsage: skipping unknown usage %q", token)
			continue
		}
		usage |= ku.usage
		names = append(names, ku.name)
	}
	if len(names) == 0 {
		return nil, nil, ErrEmptyExtension
	}

	value, err := marshalKeyUsage(usage)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return value, names, nil
}

func (b *Builder) extKeyUsage(tokens []string) ([]byte, []string, error) {
	var (
		oids  []asn1.ObjectIdentifier
		names []string
	)
	for _, token := range tokens {
		eku, ok := lookupExtKeyUsage(token)
		if !ok {
			b.log.Warnf("ExtendedKeyUsage: skipping unknown key purpose %q", token)
			continue
		}
		oids = append(oids, eku.oid)
		names = append(names, eku.name)
	}
	if len(oids) == 0 {
		return nil, nil, ErrEmptyExtension
	}

	value, err := marshalOIDSequence(oids)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return value, names, nil
}

func (b *Builder) policies(tokens []string) ([]byte, []string, error) {
	var (
		oids  []asn1.ObjectIdentifier
		names []string
	)
	for _, token := range tokens {
		oid, err := x509oid.Parse(token)
		if err != nil {
			b.log.Warnf("CertificatePolicies: skipping invalid policy %q", token)
			continue
		}
		oids = append(oids, oid)
		names = append(names, oid.String())
	}
	if len(oids) == 0 {
		return nil, nil, ErrEmptyExtension
	}

	value, err := marshalPolicies(oids)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return value, names, nil
}

func (b *Builder) subjectAltName(tokens []string) ([]byte, []string, error) {
	var (
		gns   []generalName
		names []string
	)
	for _, token := range tokens {
		gn, ok := parseGeneralName(token)
		if !ok {
			b.log.Warnf("SubjectAltName: skipping unsupported name %q", token)
			continue
		}
		gns = append(gns, gn)
		names = append(names, gn.String())
	}
	if len(gns) == 0 {
		return nil, nil, ErrEmptyExtension
	}

	value, err := marshalGeneralNames(gns)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return value, names, nil
}

// parseGeneralName accepts "email:" and "dns:" tokens with a non-empty ASCII
// value. The prefix is case-insensitive.
func parseGeneralName(token string) (generalName, bool) {
	var (
		tag   = tagRFC822Name
		value string
	)
	switch {
	case hasPrefixFold(token, PrefixEmail):
		value = strings.TrimSpace(token[len(PrefixEmail):])
	case hasPrefixFold(token, PrefixDNS):
		tag = tagDNSName
		value = strings.TrimSpace(token[len(PrefixDNS):])
	default:
		return generalName{}, false
	}

	if value == "" {
		return generalName{}, false
	}
	for i := 0; i < len(value); i++ {
		if value[i] >= utf8.RuneSelf {
			return generalName{}, false
		}
	}
	return generalName{tag: tag, value: value}, true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// tokenize splits a comma separated list, dropping blank entries.
func tokenize(values string) []string {
	var tokens []string
	for token := range strings.SplitSeq(values, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
