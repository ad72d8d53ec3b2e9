package database

import (
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in s so it matches literally. The
// query must declare ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern is a LIKE pattern matching values that contain s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// SuffixPattern is a LIKE pattern matching values that end with s.
func SuffixPattern(s string) string {
	return "%" + EscapeLike(s)
}
