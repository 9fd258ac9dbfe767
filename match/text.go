package match

import (
	"regexp"
	"strings"
)

// Generic verbs that carry no distinguishing signal for catalog matching.
// Lexical scoring strips them from both the query and the entry name so
// "replace subfloor" and "Subfloor Repair" rank as the same work item.
var genericTokens = []string{
	"install", "installation", "replace", "replacement",
	"repair", "repairs", "service", "services",
}

var (
	genericTokenRe = regexp.MustCompile(`(?i)\b(` + strings.Join(genericTokens, "|") + `)\b`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
	fragmentRe     = regexp.MustCompile(`(?i)[.\n;]+|\band\b`)
)

// minFragmentLength is the minimum rune count for a fragment to be worth
// resolving on its own.
const minFragmentLength = 8

// minStrippedLength is the minimum length of stripped query text; below
// it, stripping removed too much and the original text is used instead.
const minStrippedLength = 3

// StripGenericTokens removes generic work verbs from query text. When the
// stripped text is too short to be meaningful, the original text is
// returned unchanged.
func StripGenericTokens(text string) string {
	cleaned := genericTokenRe.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(multiSpaceRe.ReplaceAllString(cleaned, " "))
	if len([]rune(cleaned)) < minStrippedLength {
		return text
	}
	return cleaned
}

// SplitFragments splits long condition text into independently resolvable
// fragments on sentence boundaries, semicolons, line breaks and the word
// "and". Fragments shorter than minFragmentLength runes are dropped.
func SplitFragments(text string) []string {
	parts := fragmentRe.Split(text, -1)

	var fragments []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len([]rune(part)) >= minFragmentLength {
			fragments = append(fragments, part)
		}
	}
	return fragments
}
