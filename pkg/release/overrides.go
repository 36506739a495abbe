package release

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hbollon/go-edlib"
)

// FolderPrefix marks title table keys that only remap copy folders.
const FolderPrefix = "$$"

// ErrInvalidOffset is returned for offset values that are not S<n>, S<n>E<n>
// or S<n>##E<n>.
var ErrInvalidOffset = errors.New("invalid episode offset")

type titleEntry struct {
	key         string
	folded      string
	value       string
	foldedValue string
}

// TitleTable maps heuristic titles to preferred titles. Entries whose key
// starts with FolderPrefix are kept apart and only answer Folder.
// A TitleTable is immutable; With returns an extended copy.
type TitleTable struct {
	source  map[string]string
	entries []titleEntry
	exact   map[string]string
	folders map[string]string
}

// NewTitleTable builds a table from key/value pairs.
func NewTitleTable(m map[string]string) *TitleTable {
	t := &TitleTable{
		source:  make(map[string]string, len(m)),
		exact:   make(map[string]string),
		folders: make(map[string]string),
	}
	for k, v := range m {
		t.source[k] = v
		if name, ok := strings.CutPrefix(k, FolderPrefix); ok {
			t.folders[foldKey(name)] = v
			continue
		}
		folded := foldKey(k)
		if folded == "" {
			continue
		}
		t.exact[folded] = v
		t.entries = append(t.entries, titleEntry{key: k, folded: folded, value: v, foldedValue: foldKey(v)})
	}
	sort.Slice(t.entries, func(i, j int) bool { return t.entries[i].key < t.entries[j].key })
	return t
}

// With returns a copy of t with key set to value.
func (t *TitleTable) With(key, value string) *TitleTable {
	m := make(map[string]string, len(t.source)+1)
	for k, v := range t.source {
		m[k] = v
	}
	m[key] = value
	return NewTitleTable(m)
}

// Len returns the number of entries, folder entries included.
func (t *TitleTable) Len() int { return len(t.source) }

// Titles returns the distinct replacement titles, sorted.
func (t *TitleTable) Titles() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range t.entries {
		if !seen[e.value] {
			seen[e.value] = true
			out = append(out, e.value)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup returns the preferred title for title. An exact case-insensitive
// key wins; otherwise the longest key contained in title has its first
// occurrence replaced. Ties go to the key most similar to title. A key whose
// replacement already appears in title is skipped, so a second lookup of a
// result finds nothing.
func (t *TitleTable) Lookup(title string) (string, bool) {
	folded := foldKey(title)
	if v, ok := t.exact[folded]; ok {
		return v, true
	}

	var candidates []titleEntry
	for _, e := range t.entries {
		if strings.Contains(folded, e.folded) && !strings.Contains(folded, e.foldedValue) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if len(a.folded) != len(b.folded) {
			return len(a.folded) > len(b.folded)
		}
		return edlib.JaroWinklerSimilarity(folded, a.folded) > edlib.JaroWinklerSimilarity(folded, b.folded)
	})

	for _, e := range candidates {
		if out, ok := replaceFirst(title, folded, e); ok {
			return out, true
		}
	}
	return "", false
}

// replaceFirst swaps the first occurrence of e's key in title. The folded
// index is only usable when folding kept the byte length.
func replaceFirst(title, folded string, e titleEntry) (string, bool) {
	if len(folded) == len(title) {
		i := strings.Index(folded, e.folded)
		return title[:i] + e.value + title[i+len(e.folded):], true
	}
	if strings.Contains(title, e.key) {
		return strings.Replace(title, e.key, e.value, 1), true
	}
	return "", false
}

// Folder returns the copy folder name registered for title under FolderPrefix.
func (t *TitleTable) Folder(title string) (string, bool) {
	v, ok := t.folders[foldKey(title)]
	return v, ok
}

// OffsetSpec renumbers episodes of shows whose releases continue numbering
// across seasons. Season and Episode name the last episode of the previous
// season; KeepSeason pins the season instead of advancing it.
type OffsetSpec struct {
	Season     int
	HasEpisode bool
	Episode    int
	KeepSeason bool
}

var offsetPattern = regexp.MustCompile(`(?i)^S(\d{1,3})(?:(##)?E(\d{1,4}))?$`)

// ParseOffsetSpec decodes S<n>, S<n>E<n> or S<n>##E<n>.
func ParseOffsetSpec(s string) (OffsetSpec, error) {
	m := offsetPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return OffsetSpec{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}
	spec := OffsetSpec{KeepSeason: m[2] != ""}
	spec.Season, _ = strconv.Atoi(m[1])
	if m[3] != "" {
		spec.HasEpisode = true
		spec.Episode, _ = strconv.Atoi(m[3])
	}
	return spec, nil
}

func (s OffsetSpec) String() string {
	switch {
	case !s.HasEpisode:
		return fmt.Sprintf("S%02d", s.Season)
	case s.KeepSeason:
		return fmt.Sprintf("S%02d##E%02d", s.Season, s.Episode)
	default:
		return fmt.Sprintf("S%02dE%02d", s.Season, s.Episode)
	}
}

// Apply renumbers se in place.
func (s OffsetSpec) Apply(se *SeasonEpisode) {
	if !s.HasEpisode {
		se.Season = s.Season
		return
	}
	if se.Episode > s.Episode {
		se.Episode -= s.Episode
		se.Width = 2
		if se.Episode >= 100 {
			se.Width = 3
		}
	}
	if s.KeepSeason {
		se.Season = s.Season
	} else if se.Season == s.Season {
		se.Season++
	}
}

// OffsetTable maps final titles to decoded offsets.
type OffsetTable struct {
	exact  map[string]OffsetSpec
	folded map[string]OffsetSpec
}

// NewOffsetTable decodes every value once. Malformed values are skipped and
// reported together in the returned error; the table is usable either way.
func NewOffsetTable(m map[string]string) (*OffsetTable, error) {
	t := &OffsetTable{
		exact:  make(map[string]OffsetSpec, len(m)),
		folded: make(map[string]OffsetSpec, len(m)),
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		spec, err := ParseOffsetSpec(m[k])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		t.exact[k] = spec
		t.folded[foldKey(k)] = spec
	}
	return t, errors.Join(errs...)
}

// Len returns the number of decoded entries.
func (t *OffsetTable) Len() int { return len(t.exact) }

// Lookup finds the offset for title, exact first, then case-insensitive.
func (t *OffsetTable) Lookup(title string) (OffsetSpec, bool) {
	if spec, ok := t.exact[title]; ok {
		return spec, true
	}
	spec, ok := t.folded[foldKey(title)]
	return spec, ok
}
