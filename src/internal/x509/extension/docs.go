// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509ext builds and decodes the [X.509] certificate extensions a
// certificate request can ask for: key usage, extended key usage,
// certificate policies and subject alternative names.
//
// Extensions are requested with a name and a comma separated value list:
//
//	b := x509ext.NewBuilder(log)
//	ku, err := b.Build("KeyUsage", "DigitalSignature,KeyEncipherment")
//	san, err := b.Build("SubjectAltName", "email:jane@example.org,dns:host.example.org")
//
// Names match case-insensitively, and the dotted object identifier of a
// supported extension is accepted in place of its name. Tokens the builder
// does not recognize are logged and skipped.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509ext
