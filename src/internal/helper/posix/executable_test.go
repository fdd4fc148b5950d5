// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetExecutableName tests the GetExecutableName function for cross-platform compatibility.
func TestGetExecutableName(t *testing.T) {
	type testCase struct {
		name     string
		args     []string
		expected string
	}

	tests := []testCase{
		{name: "Relative path", args: []string{"./slcs-cert"}, expected: "slcs-cert"},
		{name: "Just filename", args: []string{"slcs-cert"}, expected: "slcs-cert"},
		{name: "Empty args", args: []string{}, expected: DefaultExecutableName},
		{name: "Empty first arg", args: []string{""}, expected: DefaultExecutableName},
		{name: "Foreign windows path separators", args: []string{"C:\\Program Files\\SLCS\\slcs-cert.exe"}, expected: "slcs-cert"},
	}

	if runtime.GOOS != "windows" {
		tests = append(tests,
			testCase{name: "Unix absolute path", args: []string{"/usr/local/bin/slcs-cert"}, expected: "slcs-cert"},
			testCase{name: "Unix home path", args: []string{"/home/user/bin/slcs-init"}, expected: "slcs-init"},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			os.Args = tt.args
			defer func() {
				os.Args = origArgs
			}()

			assert.Equal(t, tt.expected, GetExecutableName())
		})
	}
}
