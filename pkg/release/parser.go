// Package release infers show, season, episode and year from scene release
// file names and renders the canonical name for the file.
package release

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMaxEpisodeCount = 999
	DefaultMaxIterations   = 256

	minYear = 1950
)

var (
	explicitPattern  = regexp.MustCompile(`(?i)^S(\d+)E(\d+)$`)
	canonicalPattern = regexp.MustCompile(`^(.+) S(\d{2})E(\d{2,3})\.(.{3})$`)
)

// Title keywords are dropped from titles. Movie keywords mark a file as a
// movie when no year could be found and are only kept in the title then;
// special keywords move the episode to season 0.
var (
	movieKeywords   = []string{"Movie", "movie", "Gekijouban", "gekijouban"}
	specialKeywords = []string{"Special", "special", "ONA", "OVA", "OAD"}
	titleKeywords   = []string{"Episode", "Special", "ONA", "OVA", "OAD"}
)

// seasonWord ends a title like "Attack on Titan Season 2 - 05" whose
// season number was read as digits.
const seasonWord = "Season"

// Options tunes the heuristics.
type Options struct {
	// MaxEpisodeCount separates a 3-digit episode from season+episode.
	MaxEpisodeCount int
	// MaxIterations bounds the digit-stripping retries.
	MaxIterations int
	// ExcludeFileTypes lists extensions that are never resolved.
	ExcludeFileTypes []string
	// Now is used for the upper bound of plausible years.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxEpisodeCount <= 0 {
		o.MaxEpisodeCount = DefaultMaxEpisodeCount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Parser resolves MediaFiles. It holds no mutable state and is safe for
// concurrent use.
type Parser struct {
	opts    Options
	exclude map[string]bool
	titles  *TitleTable
	offsets *OffsetTable
}

// NewParser creates a Parser. Nil tables behave as empty tables.
func NewParser(opts Options, titles *TitleTable, offsets *OffsetTable) *Parser {
	opts = opts.withDefaults()
	exclude := make(map[string]bool, len(opts.ExcludeFileTypes))
	for _, ext := range opts.ExcludeFileTypes {
		exclude[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = true
	}
	if titles == nil {
		titles = NewTitleTable(nil)
	}
	if offsets == nil {
		offsets = &OffsetTable{}
	}
	return &Parser{opts: opts, exclude: exclude, titles: titles, offsets: offsets}
}

// WithTables returns a copy of p using the given tables.
func (p *Parser) WithTables(titles *TitleTable, offsets *OffsetTable) *Parser {
	return NewParser(p.opts, titles, offsets)
}

// Titles returns the title table in use.
func (p *Parser) Titles() *TitleTable { return p.titles }

// Offsets returns the offset table in use.
func (p *Parser) Offsets() *OffsetTable { return p.offsets }

var defaultParser = NewParser(Options{}, nil, nil)

// Parse resolves path with default options and no override tables.
func Parse(path string) *MediaFile {
	return defaultParser.Parse(path)
}

// Parse creates a MediaFile for path and resolves it.
func (p *Parser) Parse(path string) *MediaFile {
	mf := NewMediaFile(path)
	p.Resolve(mf)
	return mf
}

// Resolve (re)computes the inferred fields of mf from its original path.
// Driver-owned fields are left alone.
func (p *Parser) Resolve(mf *MediaFile) {
	mf.reset()

	dir, base := splitPath(mf.originalPath)
	mf.Dir = dir
	base = strings.TrimSpace(base)

	if mf.RenameCount > 0 && resolveCanonical(mf, base) {
		return
	}

	stem, ext := splitExtension(base)
	if ext != "" && p.exclude[strings.ToLower(ext)] {
		return
	}
	mf.Extension = ext

	cleaned := Normalize(stem)
	tokens := strings.Fields(cleaned)

	if se, idx, ok := matchExplicit(tokens); ok {
		mf.Title = buildTitle(tokens[:idx], movieKeywords...)
		mf.Episode = se
	} else {
		num := p.resolveNumbers(cleaned)
		titleTokens := leadingTitle(tokens, num.titleDigits)
		mf.Episode = num.se
		mf.Year = p.resolveYear(cleaned)
		if !mf.Year.Resolved() && containsAny(tokens, movieKeywords) {
			// without a year the keyword is the only movie marker, so it stays
			mf.Year = Year{Kind: YearAbsent}
			mf.Title = buildTitle(titleTokens)
		} else {
			mf.Title = buildTitle(titleTokens, movieKeywords...)
		}
		reconcileYear(mf, num.raw)
		if mf.Episode != nil && containsAny(tokens, specialKeywords) {
			mf.Episode.Season = 0
		}
	}

	p.applyOverrides(mf)
}

// resolveCanonical fills mf from a name already in "Title SxxEyy.ext" form.
func resolveCanonical(mf *MediaFile, base string) bool {
	m := canonicalPattern.FindStringSubmatch(base)
	if m == nil {
		return false
	}
	season, _ := strconv.Atoi(m[2])
	episode, _ := strconv.Atoi(m[3])
	mf.Title = strings.TrimSpace(m[1])
	mf.Episode = &SeasonEpisode{Season: season, Episode: episode, Width: len(m[3])}
	mf.Extension = m[4]
	return true
}

// matchExplicit finds the first SxxEyy token.
func matchExplicit(tokens []string) (*SeasonEpisode, int, bool) {
	for i, tok := range tokens {
		m := explicitPattern.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		if se := newSeasonEpisode(m[1], m[2]); se != nil {
			return se, i, true
		}
	}
	return nil, 0, false
}

// newSeasonEpisode builds a pair from raw digit strings. An empty season
// defaults to 1. Returns nil when the digits do not fit an int.
func newSeasonEpisode(season, episode string) *SeasonEpisode {
	se := &SeasonEpisode{Season: 1, Width: 2}
	if season != "" {
		v, err := strconv.Atoi(season)
		if err != nil {
			return nil
		}
		se.Season = v
	}
	v, err := strconv.Atoi(episode)
	if err != nil {
		return nil
	}
	se.Episode = v
	if len(episode) >= 3 {
		se.Width = len(episode)
	}
	return se
}

type numericResult struct {
	se          *SeasonEpisode
	raw         string // season and episode digits as they were read
	titleDigits int    // isolated digits given back to the title
}

// resolveNumbers disambiguates season and episode from the digit projection
// of cleaned. Isolated leading digits are treated as part of the title and
// stripped until the projection is short enough, at most MaxIterations times.
func (p *Parser) resolveNumbers(cleaned string) numericResult {
	var res numericResult
	cur := cleaned
	for i := 0; i < p.opts.MaxIterations; i++ {
		digits := digitsOnly(cur)
		switch n := len(digits); {
		case n == 0:
			return res
		case n <= 2:
			res.se = newSeasonEpisode("", digits)
		case n == 3:
			if p.episodeFits(digits) && strings.Contains(cur, digits) {
				res.se = newSeasonEpisode("", digits)
			} else {
				res.se = newSeasonEpisode(digits[:1], digits[1:])
			}
		case n == 4:
			last3, last2 := digits[1:], digits[2:]
			switch {
			case p.episodeFits(last3) && strings.Contains(cur, last3):
				res.se = newSeasonEpisode(digits[:1], last3)
			case strings.Contains(cur, last2):
				res.se = newSeasonEpisode(digits[:2], last2)
			default:
				return res
			}
		default:
			reduced, ok := stripTitleDigit(cur)
			if !ok {
				return res
			}
			cur = reduced
			res.titleDigits++
			continue
		}
		if res.se != nil {
			res.raw = digits
		}
		return res
	}
	return res
}

func (p *Parser) episodeFits(digits string) bool {
	v, err := strconv.Atoi(digits)
	return err == nil && v < p.opts.MaxEpisodeCount
}

// stripTitleDigit removes the first digit-bearing token when it is a single
// isolated digit followed by more text.
func stripTitleDigit(s string) (string, bool) {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if !hasDigit(tok) {
			continue
		}
		if len(tok) != 1 || i == len(tokens)-1 {
			return s, false
		}
		out := append(tokens[:i:i], tokens[i+1:]...)
		return strings.Join(out, " "), true
	}
	return s, false
}

// resolveYear searches the digit projection of cleaned for a plausible year.
// Longer projections are shortened by one digit from the front and from the
// back independently; a year is kept only when exactly one side finds one.
// The search tree is walked with an explicit stack and memoized on the
// reduced string.
func (p *Parser) resolveYear(cleaned string) Year {
	maxYear := p.opts.Now().Year()
	memo := make(map[string]int)
	stack := []string{cleaned}
	budget := p.opts.MaxIterations

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		if _, done := memo[cur]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		digits := digitsOnly(cur)
		if len(digits) < 4 {
			memo[cur] = 0
			stack = stack[:len(stack)-1]
			continue
		}
		if len(digits) == 4 {
			memo[cur] = plausibleYear(cur, digits, maxYear)
			stack = stack[:len(stack)-1]
			continue
		}

		front, back := dropFirstDigit(cur), dropLastDigit(cur)
		fy, fok := memo[front]
		by, bok := memo[back]
		if fok && bok {
			memo[cur] = exactlyOne(fy, by)
			stack = stack[:len(stack)-1]
			continue
		}

		if budget--; budget < 0 {
			return Year{}
		}
		if !fok {
			stack = append(stack, front)
		}
		if !bok {
			stack = append(stack, back)
		}
	}

	if y := memo[cleaned]; y > 0 {
		return KnownYear(y)
	}
	return Year{}
}

func plausibleYear(s, digits string, maxYear int) int {
	if !strings.Contains(s, digits) {
		return 0
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v <= minYear || v > maxYear {
		return 0
	}
	return v
}

func exactlyOne(a, b int) int {
	switch {
	case a > 0 && b == 0:
		return a
	case b > 0 && a == 0:
		return b
	}
	return 0
}

func dropFirstDigit(s string) string {
	i := strings.IndexFunc(s, isASCIIDigit)
	return s[:i] + s[i+1:]
}

func dropLastDigit(s string) string {
	i := strings.LastIndexFunc(s, isASCIIDigit)
	return s[:i] + s[i+1:]
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

// reconcileYear settles a file that resolved both an episode and a year.
// A year spelled by the season and episode digits means the digits were a
// year all along; any other year belongs to the title. A movie keeps its
// digits in the title so "Movie 2" and "Movie 3" stay apart.
func reconcileYear(mf *MediaFile, rawSE string) {
	if mf.Episode == nil || !mf.Year.Resolved() {
		return
	}
	if mf.Year.Kind == YearAbsent {
		mf.Episode = nil
		appendTitleToken(mf, rawSE)
		return
	}
	if strconv.Itoa(mf.Year.Value) == rawSE {
		mf.Episode = nil
		return
	}
	appendTitleToken(mf, strconv.Itoa(mf.Year.Value))
	mf.Year = Year{}
}

func appendTitleToken(mf *MediaFile, tok string) {
	if mf.Title != "" && tok != "" && !containsAny(strings.Fields(mf.Title), []string{tok}) {
		mf.Title += " " + tok
	}
}

// leadingTitle returns the tokens before the first digit-bearing token,
// keeping up to titleDigits isolated single digits.
func leadingTitle(tokens []string, titleDigits int) []string {
	var out []string
	for _, tok := range tokens {
		if hasDigit(tok) {
			if titleDigits > 0 && len(tok) == 1 {
				out = append(out, tok)
				titleDigits--
				continue
			}
			break
		}
		out = append(out, tok)
	}
	return out
}

// buildTitle joins tokens without keywords or extra words, trimming stray
// dashes and a dangling season word.
func buildTitle(tokens []string, extra ...string) string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if containsFold(titleKeywords, tok) || containsFold(extra, tok) {
			continue
		}
		out = append(out, tok)
	}
	for len(out) > 0 && strings.Trim(out[0], "-") == "" {
		out = out[1:]
	}
	for len(out) > 0 {
		last := out[len(out)-1]
		if strings.Trim(last, "-") != "" && !strings.EqualFold(last, seasonWord) {
			break
		}
		out = out[:len(out)-1]
	}
	return strings.Join(out, " ")
}

func (p *Parser) applyOverrides(mf *MediaFile) {
	if mf.Title == "" {
		return
	}
	if title, ok := p.titles.Lookup(mf.Title); ok {
		mf.Title = title
	}
	if mf.Episode == nil {
		return
	}
	if spec, ok := p.offsets.Lookup(mf.Title); ok {
		spec.Apply(mf.Episode)
	}
}

func containsAny(tokens, words []string) bool {
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func containsFold(words []string, tok string) bool {
	for _, w := range words {
		if strings.EqualFold(w, tok) {
			return true
		}
	}
	return false
}
