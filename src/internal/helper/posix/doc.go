// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-compliant helper functions for cross-platform compatibility.
//
// Key functions:
//   - GetExecutableName: Returns the executable name without extension for CLI usage
//   - WriteFile: Writes key, request and certificate files with restrictive permissions
//
// # File Permissions
//
// WriteFile applies the requested mode to the file before any byte is
// written, so a secret never sits on disk with the umask default:
//
//	err := posix.WriteFile("userkey.pem", pemBytes, posix.ModePrivateKey, log)
//
// When the mode cannot be applied (for example on file systems without
// [POSIX] permissions) the failure is logged and the data is still written.
// When writing fails the partially written file is removed.
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
