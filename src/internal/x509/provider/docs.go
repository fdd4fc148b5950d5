// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509provider defines the explicit algorithm registry used by the
// certificate request client. A [Provider] is built once at startup, usually
// from configuration, and passed to every constructor that generates keys,
// signs requests or encrypts private keys.
package x509provider
