// Package textnorm normalizes the human-entered names used as natural keys so
// that encoding and spacing differences in sidecar files don't produce
// duplicate catalog rows.
package textnorm

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Key returns the normalized form of a natural key: Unicode NFC, leading and
// trailing whitespace removed, and inner runs of whitespace collapsed to a
// single space. Case is preserved; lookups compare case-insensitively.
func Key(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Equal reports whether two names refer to the same natural key.
func Equal(a, b string) bool {
	return strings.EqualFold(Key(a), Key(b))
}

// Same reports whether a and b normalize to the same key, respecting case.
func Same(a, b string) bool {
	return Key(a) == Key(b)
}

// foldTargets are ASCII runes that some other code point turns into under NFC
// or case folding (KELVIN SIGN, LATIN SMALL LETTER LONG S, GREEK QUESTION
// MARK, GREEK VARIA), so a stored spelling need not contain them literally.
const foldTargets = "KkSs;`"

// Fragment returns the longest run of ASCII, non-space characters in Key(s)
// that every stored spelling Equal to s contains, ignoring ASCII case. It is
// meant to narrow a SQL scan before comparing with Equal, and is empty when
// no such run exists.
func Fragment(s string) string {
	var best, cur strings.Builder
	flush := func() {
		if cur.Len() > best.Len() {
			best.Reset()
			best.WriteString(cur.String())
		}
		cur.Reset()
	}

	for _, r := range Key(s) {
		if r < utf8.RuneSelf && r != ' ' && !strings.ContainsRune(foldTargets, r) {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return best.String()
}

// Filter keeps the items whose name is Equal to name, in order.
func Filter[T any](items []T, name string, nameOf func(T) string) []T {
	key := Key(name)
	var out []T
	for _, item := range items {
		if strings.EqualFold(Key(nameOf(item)), key) {
			out = append(out, item)
		}
	}
	return out
}
