package keyword

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenRe = regexp.MustCompile(`[A-Za-z0-9_]+`)

// splitIdentifier breaks a raw token at camelCase and snake_case boundaries
// into lowercase pieces, so "NavHelper" yields ["nav", "helper"].
func splitIdentifier(token string) []string {
	var parts []string
	var buf []rune
	var prevUpper bool
	for _, ch := range token {
		upper := unicode.IsUpper(ch)
		if upper && len(buf) > 0 && !prevUpper {
			parts = append(parts, string(buf))
			buf = buf[:0]
		}
		buf = append(buf, unicode.ToLower(ch))
		prevUpper = upper
	}
	if len(buf) > 0 {
		parts = append(parts, string(buf))
	}

	var out []string
	for _, p := range parts {
		for _, s := range strings.Split(p, "_") {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Tokenize is case-insensitive, splits on non-alphanumeric boundaries and
// additionally at identifier-internal casing boundaries.
func Tokenize(text string) []string {
	var toks []string
	for _, m := range tokenRe.FindAllString(text, -1) {
		toks = append(toks, splitIdentifier(m)...)
	}
	return toks
}
