package release

import (
	"fmt"
	"strconv"
	"strings"
)

// YearKind distinguishes a resolved year from the movie-without-year case.
type YearKind int

const (
	YearUnresolved YearKind = iota
	YearAbsent              // confirmed movie, no year in the name
	YearKnown
)

const unknownStr = "unknown"

func (k YearKind) String() string {
	switch k {
	case YearAbsent:
		return "absent"
	case YearKnown:
		return "known"
	default:
		return unknownStr
	}
}

// Year is the release year of a movie.
type Year struct {
	Kind  YearKind
	Value int
}

// KnownYear returns a resolved Year.
func KnownYear(v int) Year { return Year{Kind: YearKnown, Value: v} }

// Resolved reports whether the year field carries a decision.
func (y Year) Resolved() bool { return y.Kind != YearUnresolved }

func (y Year) String() string {
	switch y.Kind {
	case YearKnown:
		return strconv.Itoa(y.Value)
	case YearAbsent:
		return ""
	default:
		return unknownStr
	}
}

// SeasonEpisode is a resolved season/episode pair.
// Width is the zero-padded width of the episode (2 or 3).
type SeasonEpisode struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
	Width   int `json:"width"`
}

// SeasonString returns the season zero-padded to two digits.
func (se SeasonEpisode) SeasonString() string {
	return fmt.Sprintf("%02d", se.Season)
}

// EpisodeString returns the episode zero-padded to its width.
func (se SeasonEpisode) EpisodeString() string {
	w := se.Width
	if w < 2 {
		w = 2
	}
	return fmt.Sprintf("%0*d", w, se.Episode)
}

func (se SeasonEpisode) String() string {
	return "S" + se.SeasonString() + "E" + se.EpisodeString()
}

// MediaFile holds everything inferred about a single file.
type MediaFile struct {
	originalPath string

	Dir       string         `json:"dir,omitempty"`
	Title     string         `json:"title,omitempty"`
	Episode   *SeasonEpisode `json:"episode,omitempty"`
	Year      Year           `json:"-"`
	Extension string         `json:"extension,omitempty"`

	// Set by the driver, never by the parser.
	MediaType    string `json:"media_type,omitempty"`
	CopyLocation string `json:"copy_location,omitempty"`
	RenameCount  int    `json:"rename_count,omitempty"`
}

// NewMediaFile creates an unresolved MediaFile for path.
func NewMediaFile(path string) *MediaFile {
	return &MediaFile{originalPath: path}
}

// OriginalPath returns the path the file was created with.
func (m *MediaFile) OriginalPath() string { return m.originalPath }

// reset clears all inference fields.
func (m *MediaFile) reset() {
	m.Dir = ""
	m.Title = ""
	m.Episode = nil
	m.Year = Year{}
	m.Extension = ""
}

// IsMovie reports whether the file resolved to the movie form.
func (m *MediaFile) IsMovie() bool {
	return m.Year.Resolved()
}

// Name returns the canonical file name (without directory).
// ok is false when the resolved fields are not enough to name the file.
func (m *MediaFile) Name() (string, bool) {
	if m.Title == "" || m.Extension == "" {
		return "", false
	}
	switch {
	case m.Year.Kind == YearKnown:
		return fmt.Sprintf("%s %d.%s", m.Title, m.Year.Value, m.Extension), true
	case m.Year.Kind == YearAbsent:
		return m.Title + "." + m.Extension, true
	case m.Episode != nil:
		return fmt.Sprintf("%s %s.%s", m.Title, m.Episode, m.Extension), true
	}
	return "", false
}

// Path returns the canonical name joined to the original directory prefix.
func (m *MediaFile) Path() (string, bool) {
	name, ok := m.Name()
	if !ok {
		return "", false
	}
	return m.Dir + name, true
}

// Changed reports whether the canonical path differs from the original.
func (m *MediaFile) Changed() bool {
	p, ok := m.Path()
	return ok && p != m.originalPath
}

// Summary is a flattened view of a MediaFile for display and JSON output.
type Summary struct {
	Input     string `json:"input"`
	Title     string `json:"title,omitempty"`
	Season    string `json:"season,omitempty"`
	Episode   string `json:"episode,omitempty"`
	Year      string `json:"year,omitempty"`
	Movie     bool   `json:"movie"`
	Extension string `json:"extension,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Summarize flattens the file for output.
func (m *MediaFile) Summarize() Summary {
	s := Summary{
		Input:     m.originalPath,
		Title:     m.Title,
		Movie:     m.IsMovie(),
		Extension: m.Extension,
	}
	if m.Episode != nil && !m.IsMovie() {
		s.Season = m.Episode.SeasonString()
		s.Episode = m.Episode.EpisodeString()
	}
	if m.Year.Kind == YearKnown {
		s.Year = m.Year.String()
	}
	s.Name, _ = m.Name()
	return s
}

// splitPath separates the directory prefix (kept verbatim) from the base name.
func splitPath(path string) (dir, base string) {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return "", path
	}
	return path[:i+1], path[i+1:]
}

// splitExtension removes a three character extension from base.
func splitExtension(base string) (stem, ext string) {
	i := strings.LastIndex(base, ".")
	if i < 0 || len(base)-i-1 != 3 {
		return base, ""
	}
	return base[:i], base[i+1:]
}
