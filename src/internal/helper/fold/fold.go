// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package fold reduces accented text to plain ASCII-compatible text for
// use in distinguished name values that must stay printable.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// expansions are letters that do not decompose into a base letter plus a
// combining mark, or whose customary transliteration is two letters.
var expansions = strings.NewReplacer(
	"Ä", "Ae", "ä", "ae",
	"Ö", "Oe", "ö", "oe",
	"Ü", "Ue", "ü", "ue",
	"ß", "ss",
	"Æ", "AE", "æ", "ae",
	"Ø", "O", "ø", "o",
	"Œ", "OE", "œ", "oe",
	"Ð", "D", "ð", "d",
	"Þ", "TH", "þ", "th",
	"Ł", "L", "ł", "l",
)

// Accents replaces umlauts with their two letter form and strips every
// other combining mark, so "Zürich Genève" becomes "Zuerich Geneve".
// Characters outside the Latin script are returned unchanged.
func Accents(s string) string {
	s = expansions.Replace(norm.NFC.String(s))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
