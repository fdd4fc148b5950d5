// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain decides whether certificate chains presented by an SLCS
// server are trusted.
// It provides capabilities to:
//   - Extend the platform trust decision with a local set of trusted issuers
//     loaded from [PEM], [JKS], or [PKCS12] trust stores.
//   - Wire that decision into [crypto/tls] client and server configurations.
//   - Fetch remote certificate chains from TLS endpoints and complete them
//     through AIA issuer URLs.
//   - Render chains and trust verdicts as tables, trees, or JSON.
//
// The local trust store only ever adds trust: a chain the platform accepts
// is never rejected, and client certificates are judged by the platform alone.
//
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
// [JKS]: https://grokipedia.com/page/Java_KeyStore
// [PKCS12]: https://grokipedia.com/page/PKCS_12
package x509chain
