// Package importer renames downloaded releases in place and moves them into a
// media library, asking the user when interaction is enabled.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmunix/mediarename/internal/tables"
	"github.com/vmunix/mediarename/pkg/release"
)

// Config for the importer.
type Config struct {
	Interactive bool
	DryRun      bool

	CopyDir          string
	MediaDivision    bool
	Structure        string
	DefaultMediaType string

	// MediaTypes maps titles to media types. Matching ignores case.
	MediaTypes map[string]string

	// Table files that learned entries are appended to. Empty disables saving.
	TitlesPath     string
	MediaTypesPath string
}

// Importer runs the rename and copy passes over a directory.
// An Importer is not safe for concurrent use.
type Importer struct {
	parser     *release.Parser
	cfg        Config
	layout     *Layout
	prompter   Prompter // nil unless interactive
	history    *HistoryStore
	session    string
	mediaTypes map[string]string
	log        *slog.Logger
}

// New creates an importer. prompter is only consulted when cfg.Interactive is
// set, history may be nil.
func New(parser *release.Parser, cfg Config, prompter Prompter, history *HistoryStore, log *slog.Logger) *Importer {
	if !cfg.Interactive {
		prompter = nil
	}
	mediaTypes := make(map[string]string, len(cfg.MediaTypes))
	for k, v := range cfg.MediaTypes {
		mediaTypes[k] = v
	}
	return &Importer{
		parser:     parser,
		cfg:        cfg,
		layout:     NewLayout(cfg.CopyDir, cfg.MediaDivision, cfg.Structure, parser.Titles()),
		prompter:   prompter,
		history:    history,
		session:    NewSession(),
		mediaTypes: mediaTypes,
		log:        log.With("component", "importer"),
	}
}

// Session returns the history session id of this importer.
func (i *Importer) Session() string { return i.session }

// Parser returns the parser in use, including titles learned so far.
func (i *Importer) Parser() *release.Parser { return i.parser }

// Outcome describes what happened to one file.
type Outcome struct {
	Source string `json:"source"`
	Dest   string `json:"dest,omitempty"`
	Title  string `json:"title,omitempty"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

// PassResult summarizes a rename or copy pass.
type PassResult struct {
	Scanned       int       `json:"scanned"`
	Done          int       `json:"done"`
	Skipped       int       `json:"skipped"`
	Unchanged     int       `json:"unchanged"`
	Unformattable int       `json:"unformattable"`
	Failed        int       `json:"failed"`
	Outcomes      []Outcome `json:"outcomes,omitempty"`
}

func (r *PassResult) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch {
	case o.Error != "":
		r.Failed++
	case o.Action == ActionSkipped:
		r.Skipped++
	default:
		r.Done++
	}
}

// RenamePass gives every file below dir its canonical name.
func (i *Importer) RenamePass(ctx context.Context, dir string) (*PassResult, error) {
	files, err := FindAllFiles(dir)
	if err != nil {
		return nil, err
	}
	i.log.Info("rename pass started", "path", dir, "files", len(files))

	result := &PassResult{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		mf := i.parser.Parse(path)
		target, ok := mf.Path()
		if !ok {
			result.Unformattable++
			i.log.Debug("cannot infer name", "path", path)
			continue
		}
		if target == path {
			result.Unchanged++
			continue
		}

		outcome, err := i.rename(mf, path, target)
		if err != nil {
			return result, err
		}
		result.add(outcome)
	}

	i.log.Info("rename pass complete", "path", dir, "renamed", result.Done, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// rename handles one file. Only prompt errors are returned, file errors are
// reported in the outcome.
func (i *Importer) rename(mf *release.MediaFile, path, target string) (Outcome, error) {
	outcome := Outcome{Source: path, Dest: target, Title: mf.Title, Action: ActionRenamed}

	if i.prompter != nil {
		decision, err := i.prompter.ConfirmRename(path, target)
		if err != nil {
			return outcome, fmt.Errorf("confirm rename: %w", err)
		}
		switch decision.Action {
		case Skip:
			outcome.Action = ActionSkipped
			i.record(outcome)
			return outcome, nil
		case Replace:
			if err := ValidateName(decision.Name); err != nil {
				outcome.Error = err.Error()
				i.log.Warn("replacement rejected", "path", path, "name", decision.Name, "error", err)
				return outcome, nil
			}
			target = mf.Dir + decision.Name
			outcome.Dest = target
			i.learnTitle(mf.Title, decision.Name)
		}
	}

	if i.cfg.DryRun {
		i.log.Info("would rename", "path", path, "dest", target)
		return outcome, nil
	}

	if err := RenameFile(path, target); err != nil {
		outcome.Error = err.Error()
		level := slog.LevelError
		if errors.Is(err, ErrDestinationExists) {
			level = slog.LevelWarn
		}
		i.log.Log(context.Background(), level, "rename failed", "path", path, "dest", target, "error", err)
		return outcome, nil
	}

	i.log.Info("renamed", "path", path, "dest", target)
	i.record(outcome)
	return outcome, nil
}

// learnTitle stores a title correction implied by a typed file name, so that
// later files with the same inferred title pick it up.
func (i *Importer) learnTitle(inferred, name string) {
	probe := release.NewMediaFile(name)
	probe.RenameCount = 1
	i.parser.Resolve(probe)
	if inferred == "" || probe.Title == "" || probe.Title == inferred {
		return
	}

	titles := i.parser.Titles().With(inferred, probe.Title)
	i.parser = i.parser.WithTables(titles, i.parser.Offsets())
	i.log.Info("learned title", "title", inferred, "name", probe.Title)

	if i.cfg.TitlesPath == "" || i.cfg.DryRun {
		return
	}
	if err := tables.Append(i.cfg.TitlesPath, inferred, probe.Title); err != nil {
		i.log.Warn("save title failed", "path", i.cfg.TitlesPath, "error", err)
	}
}

// CopyPass moves every formattable file below dir into the library.
// Files are expected to carry canonical names from a previous rename pass.
func (i *Importer) CopyPass(ctx context.Context, dir string) (*PassResult, error) {
	files, err := FindAllFiles(dir)
	if err != nil {
		return nil, err
	}
	i.log.Info("copy pass started", "path", dir, "dest", i.cfg.CopyDir, "files", len(files))

	result := &PassResult{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		mf := release.NewMediaFile(path)
		mf.RenameCount++
		i.parser.Resolve(mf)
		if _, ok := mf.Name(); !ok {
			result.Unformattable++
			i.log.Debug("cannot infer name", "path", path)
			continue
		}

		outcome, err := i.copy(mf, path)
		if err != nil {
			return result, err
		}
		result.add(outcome)
	}

	i.log.Info("copy pass complete", "path", dir, "copied", result.Done, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (i *Importer) copy(mf *release.MediaFile, path string) (Outcome, error) {
	outcome := Outcome{Source: path, Title: mf.Title, Action: ActionCopied}

	if i.cfg.MediaDivision {
		mediaType, err := i.mediaType(mf.Title)
		if err != nil {
			return outcome, err
		}
		if mediaType == "" {
			outcome.Action = ActionSkipped
			i.log.Info("no media type, skipping", "path", path, "title", mf.Title)
			i.record(outcome)
			return outcome, nil
		}
		mf.MediaType = mediaType
	}

	dest, err := i.layout.Destination(mf)
	if err != nil {
		outcome.Error = err.Error()
		i.log.Error("predict destination failed", "path", path, "error", err)
		return outcome, nil
	}
	mf.CopyLocation = dest
	outcome.Dest = dest

	if i.prompter != nil {
		decision, err := i.prompter.ConfirmCopy(path, dest)
		if err != nil {
			return outcome, fmt.Errorf("confirm copy: %w", err)
		}
		switch decision.Action {
		case Skip:
			outcome.Action = ActionSkipped
			i.record(outcome)
			return outcome, nil
		case Replace:
			dest = filepath.Join(decision.Name, filepath.Base(dest))
			mf.CopyLocation = dest
			outcome.Dest = dest
		}
	}

	if i.cfg.DryRun {
		i.log.Info("would move", "path", path, "dest", dest)
		return outcome, nil
	}

	size, err := MoveFile(path, dest)
	if err != nil {
		outcome.Error = err.Error()
		i.log.Error("move failed", "path", path, "dest", dest, "error", err)
		return outcome, nil
	}

	i.log.Info("moved", "path", path, "dest", dest, "size_bytes", size)
	i.record(outcome)
	return outcome, nil
}

// mediaType resolves the media type of title from the table, the user, or
// the configured default, in that order. "" means unknown.
func (i *Importer) mediaType(title string) (string, error) {
	for k, v := range i.mediaTypes {
		if strings.EqualFold(k, title) {
			return v, nil
		}
	}

	if i.prompter == nil {
		return i.cfg.DefaultMediaType, nil
	}

	mediaType, err := i.prompter.AskMediaType(title, i.knownMediaTypes())
	if err != nil {
		return "", fmt.Errorf("ask media type: %w", err)
	}
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return "", nil
	}

	i.mediaTypes[title] = mediaType
	if i.cfg.MediaTypesPath != "" && !i.cfg.DryRun {
		if err := tables.Append(i.cfg.MediaTypesPath, title, mediaType); err != nil {
			i.log.Warn("save media type failed", "path", i.cfg.MediaTypesPath, "error", err)
		}
	}
	return mediaType, nil
}

// knownMediaTypes returns the distinct media types, sorted.
func (i *Importer) knownMediaTypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range i.mediaTypes {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// record adds a history entry. Failures are logged, never fatal.
func (i *Importer) record(o Outcome) {
	if i.history == nil || i.cfg.DryRun {
		return
	}
	err := i.history.Add(&HistoryEntry{
		Session: i.session,
		Action:  o.Action,
		Source:  o.Source,
		Dest:    o.Dest,
		Title:   o.Title,
	})
	if err != nil {
		i.log.Warn("record history failed", "path", o.Source, "error", err)
	}
}
