// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509dn

import (
	"fmt"
	"strings"
)

// Escape escapes a raw attribute value for use in a distinguished name
// string.
//
// The characters , + " \ < > ; and = are escaped wherever they occur. A
// leading "#" or space and a trailing space are escaped too, and control
// characters are written as "\hh" hex pairs. A "#" elsewhere, including at
// the end of the value, is left as is, as RFC 2253 only reserves the
// leading position.
func Escape(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 4)

	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case strings.IndexByte(`,+"\<>;=`, c) >= 0:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '#' && i == 0:
			b.WriteString(`\#`)
		case c == ' ' && (i == 0 || i == len(v)-1):
			b.WriteString(`\ `)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, `\%02X`, c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
