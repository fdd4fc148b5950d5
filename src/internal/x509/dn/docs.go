// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509dn parses and renders [RFC 2253] distinguished names.
//
// A [Name] keeps its relative distinguished names in encoding order, root-most
// first, the way an X.509 RDNSequence stores them. Parsing and rendering use
// the usual display order, most specific first, so
//
//	CN=A+CN=B,O=Example,C=US
//
// is stored as C=US, O=Example, then the multi-valued group CN=A+CN=B.
//
// Every value remembers how it was escaped in its source string. Rendering a
// parsed name therefore reproduces escaped input verbatim, and only values
// that were quoted, built in code or decoded from DER are escaped on output.
//
// [RFC 2253]: https://www.rfc-editor.org/rfc/rfc2253
package x509dn
