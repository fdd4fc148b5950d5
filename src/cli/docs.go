// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface of the SLCS certificate request client.
// It implements a Cobra-based CLI that generates private keys, builds certificate requests
// with extensions, inspects requests and issued certificates, completes and converts
// certificate chains, checks server chains against a local trust store, and exports
// credentials as PKCS#12 files.
// The package loads the configuration through the config package and reports progress
// through the logger package.
package cli
