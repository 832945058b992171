// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives ASCII identifiers from free-form names.
//
// Group codes are derived from the group name when an admin does not supply
// one: "Hôpital Sainte-Justine" becomes "HOPITAL-SAINTE-JUSTINE".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Code converts name into an uppercase code of ASCII letters, digits and single hyphens.
func Code(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var builder strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(unicode.ToUpper(r))
		default:
			pendingHyphen = true
		}
	}

	return builder.String()
}
