// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExecutableName is used when the process name is unavailable.
const DefaultExecutableName = "slcs-cert"

// GetExecutableName returns the executable name without extension, cross-platform compatible.
// It extracts the base name from os.Args[0] and removes the .exe suffix
// to provide a clean name for CLI usage strings.
//
//   - Linux/macOS: "slcs-cert" from "/usr/local/bin/slcs-cert"
//   - Windows: "slcs-cert" from "C:\bin\slcs-cert.exe"
//   - Fallback: [DefaultExecutableName] if os.Args[0] is unavailable
func GetExecutableName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return DefaultExecutableName
	}

	name := filepath.Base(os.Args[0])

	// Windows paths seen on a Unix host are not split by filepath.Base.
	if strings.Contains(name, "\\") || (strings.Contains(name, "/") && !strings.Contains(name, string(filepath.Separator))) {
		parts := strings.FieldsFunc(name, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			name = parts[len(parts)-1]
		}
	}

	return strings.TrimSuffix(name, ".exe")
}
