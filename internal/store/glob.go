// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package store

import (
	"regexp"
	"strings"
)

// GlobToRegexp translates a Redis-style glob into an anchored regular expression.
// Supported syntax: * (any run), ? (one char), [abc], [^a-z] and backslash escapes.
// As in Redis, "[]" matches nothing, "[^]" matches any one char and reversed
// ranges are swapped.
func GlobToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteByte('^')

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '\\':
			if i+1 < len(pattern) {
				i++
				b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			} else {
				b.WriteString(`\\`)
			}
		case '[':
			class, n, ok := globClass(pattern[i+1:])
			if !ok {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(class)
			i += n
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteByte('$')
	return regexp.Compile(b.String())
}

// globClass converts the body of a bracket expression (the text after '[')
// into a regexp class. It returns the class, the bytes consumed including the
// closing ']', and false when the bracket is never closed.
func globClass(s string) (string, int, bool) {
	var b strings.Builder
	b.WriteByte('[')

	j := 0
	negate := j < len(s) && s[j] == '^'
	if negate {
		b.WriteByte('^')
		j++
	}

	empty := true
	for ; j < len(s); j++ {
		c := s[j]
		if c == ']' {
			if empty {
				if negate {
					return ".", j + 1, true
				}
				return `[^\x00-\x{10FFFF}]`, j + 1, true
			}
			b.WriteByte(']')
			return b.String(), j + 1, true
		}
		if c == '\\' && j+1 < len(s) {
			j++
			c = s[j]
		}

		if j+2 < len(s) && s[j+1] == '-' && s[j+2] != ']' {
			lo, hi := c, s[j+2]
			if lo > hi {
				lo, hi = hi, lo
			}
			b.WriteString(classLiteral(lo) + "-" + classLiteral(hi))
			j += 2
		} else {
			b.WriteString(classLiteral(c))
		}
		empty = false
	}
	return "", 0, false
}

func classLiteral(c byte) string {
	if c == '-' {
		return `\-`
	}
	return regexp.QuoteMeta(string(c))
}
