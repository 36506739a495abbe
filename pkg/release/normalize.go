package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// groupPattern matches one (...), [...] or {...} group without nesting.
	groupPattern = regexp.MustCompile(`\([^()]*\)|\[[^\[\]]*\]|\{[^{}]*\}`)

	// keptGroupPattern matches group contents that carry numbering we need:
	// a bare year like (2013) or a season/episode token like [2.01] or [1x01].
	keptGroupPattern = regexp.MustCompile(`^\s*(?:(?:19|20)\d{2}|\d{1,2}[.xX]\d{2,3})\s*$`)

	separatorPattern   = regexp.MustCompile(`[._;,!&]\s*`)
	dashPattern        = regexp.MustCompile(`\s+-\s+`)
	versionPattern     = regexp.MustCompile(`(\d)v\d+\b`)
	digitXDigitPattern = regexp.MustCompile(`(\d)[xX](\d)`)
	codecPattern       = regexp.MustCompile(`(?i)\bx\d{3}\b`)
	resolutionPattern  = regexp.MustCompile(`\d{3,4}p\b`)
	sequencePattern    = regexp.MustCompile(`#\d*`)

	quoteReplacer = strings.NewReplacer("`", "'", "‘", "'", "’", "'", "´", "'")
)

// Normalize cleans a file name stem (no directory, no extension) into a
// space separated token string.
func Normalize(stem string) string {
	s := groupPattern.ReplaceAllStringFunc(stem, func(group string) string {
		inner := group[1 : len(group)-1]
		if keptGroupPattern.MatchString(inner) {
			return " " + strings.TrimSpace(inner) + " "
		}
		return " "
	})

	s = separatorPattern.ReplaceAllString(s, " ")
	s = dashPattern.ReplaceAllString(s, " ")

	// release revisions: 05v2 is episode 05
	s = versionPattern.ReplaceAllString(s, "$1")

	// 1x01 must become "1 01" before codec stripping can eat "x01..."
	s = digitXDigitPattern.ReplaceAllString(s, "$1 $2")

	s = codecPattern.ReplaceAllString(s, " ")
	s = resolutionPattern.ReplaceAllString(s, " ")

	s = quoteReplacer.Replace(s)
	s = norm.NFC.String(s)

	s = sequencePattern.ReplaceAllString(s, "")

	return strings.Join(strings.Fields(s), " ")
}

// digitsOnly returns the digit projection of s.
func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// foldKey returns the case-folded form used for case-insensitive table keys.
// A Caser is not safe for concurrent use, so one is made per call.
func foldKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// CleanTitle normalizes a title for fuzzy comparison.
// Lowercases, removes accents and punctuation, collapses whitespace.
func CleanTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
