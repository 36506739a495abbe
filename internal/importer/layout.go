// internal/importer/layout.go
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/vmunix/mediarename/pkg/release"
)

// DefaultStructure is the layout used for titles without an existing folder.
const DefaultStructure = "{title}/{title} {season}"

// formatPattern matches {name} or {name:02} style placeholders.
var formatPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// applyTemplate substitutes variables into a template string.
// Supports {name} for simple substitution and {name:02} for zero-padded integers.
// Unknown placeholders are left as is.
func applyTemplate(template string, vars map[string]any) string {
	return formatPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := formatPattern.FindStringSubmatch(match)
		val, ok := vars[parts[1]]
		if !ok {
			return match
		}

		if parts[2] != "" {
			if width, err := strconv.Atoi(parts[2]); err == nil {
				if v, isInt := val.(int); isInt {
					return fmt.Sprintf("%0*d", width, v)
				}
			}
		}
		return fmt.Sprint(val)
	})
}

// Layout places episodes and movies below a copy root.
type Layout struct {
	root          string
	mediaDivision bool
	structure     string
	titles        *release.TitleTable
}

// NewLayout creates a layout rooted at root. An empty structure uses
// DefaultStructure. titles supplies "$$" folder overrides and may be nil.
func NewLayout(root string, mediaDivision bool, structure string, titles *release.TitleTable) *Layout {
	if structure == "" {
		structure = DefaultStructure
	}
	return &Layout{
		root:          root,
		mediaDivision: mediaDivision,
		structure:     structure,
		titles:        titles,
	}
}

// base returns the directory a file of the given media type belongs under.
func (l *Layout) base(mediaType string) string {
	if l.mediaDivision && mediaType != "" {
		return filepath.Join(l.root, SanitizeFilename(mediaType))
	}
	return l.root
}

// FolderTitle returns the folder name used for title.
func (l *Layout) FolderTitle(title string) string {
	if l.titles != nil {
		if folder, ok := l.titles.Folder(title); ok {
			return SanitizeFilename(folder)
		}
	}
	return SanitizeFilename(title)
}

// Render expands the structure template for a season directory.
func (l *Layout) Render(title string, season, year int) string {
	vars := map[string]any{
		"title":         title,
		"season":        "Season " + strconv.Itoa(season),
		"season_number": season,
		"year":          "",
	}
	if year > 0 {
		vars["year"] = year
	}
	return filepath.FromSlash(applyTemplate(l.structure, vars))
}

// Destination predicts where mf belongs. Existing season or title folders
// are preferred over the structure template. The file itself is not touched.
func (l *Layout) Destination(mf *release.MediaFile) (string, error) {
	name, ok := mf.Name()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnformattable, mf.OriginalPath())
	}
	name = SanitizeFilename(name)

	base := l.base(mf.MediaType)
	var dest string
	if mf.IsMovie() {
		dest = filepath.Join(base, name)
	} else {
		dest = filepath.Join(l.seasonDir(base, mf), name)
	}

	if err := ValidatePath(dest, l.root); err != nil {
		return "", err
	}
	return dest, nil
}

func (l *Layout) seasonDir(base string, mf *release.MediaFile) string {
	title := l.FolderTitle(mf.Title)
	season := mf.Episode.Season
	seasonName := title + " Season " + strconv.Itoa(season)

	candidates := []string{
		filepath.Join(base, title, seasonName),
		filepath.Join(base, seasonName),
		filepath.Join(base, title),
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	year := 0
	if mf.Year.Kind == release.YearKnown {
		year = mf.Year.Value
	}
	return filepath.Join(base, l.Render(title, season, year))
}
