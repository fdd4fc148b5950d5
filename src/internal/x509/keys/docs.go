// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509keys generates and stores the RSA key pair behind a
// certificate request.
//
// Private keys are written as traditional [PEM] "RSA PRIVATE KEY" blocks.
// When a password is set the block is encrypted and carries the Proc-Type
// and DEK-Info headers OpenSSL expects. New keys are encrypted with the
// cipher configured in the [x509provider.Provider], AES-256-CBC by default;
// keys encrypted with older ciphers such as DES-EDE3-CBC can still be loaded.
//
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509keys
