// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs provides encoding and decoding operations for [X.509] certificates
// returned by the certificate authority.
// It reads [PEM], DER, and [PKCS7] input, groups an issued certificate with the
// chain delivered alongside it into a [Bundle], and exports credentials as
// [PKCS12] files.
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PKCS12]: https://grokipedia.com/page/PKCS_12
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509certs
