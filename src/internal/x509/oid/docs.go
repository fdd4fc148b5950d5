// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509oid holds the closed set of object identifiers used when building
// certificate requests: the four supported extensions, the key purposes of the
// extended key usage extension and the [PKCS#9] extension request attribute.
//
// [PKCS#9]: https://www.rfc-editor.org/rfc/rfc2985
package x509oid
