// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509csr assembles and loads [PKCS#10] certificate signing requests.
//
// A [Request] always carries a verified signature: [Builder.Create] checks
// the request it just signed and [Load] checks every request it decodes, so
// an invalid request cannot be obtained from this package.
//
// Requested extensions travel in a single PKCS#9 extensionRequest
// attribute, which is left out entirely when there are none.
//
// [PKCS#10]: https://www.rfc-editor.org/rfc/rfc2986
package x509csr
