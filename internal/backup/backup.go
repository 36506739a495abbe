// Package backup mirrors new and changed files from a source tree into a
// destination tree.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/mediarename/internal/importer"
)

// ErrSameTree indicates source and destination resolve to overlapping trees.
var ErrSameTree = errors.New("source and destination overlap")

// partialSuffix marks files still being copied.
const partialSuffix = ".partial"

// Reasons a file is selected.
const (
	ReasonMissing = "missing"
	ReasonSize    = "size"
)

// Config for a backup run.
type Config struct {
	Source      string
	Destination string
	// Since selects source files modified after it. The zero value uses the
	// newest modification time found in the destination.
	Since  time.Time
	DryRun bool
}

// Candidate is a source file that needs copying.
type Candidate struct {
	Source  string    `json:"source"`
	Dest    string    `json:"dest"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Reason  string    `json:"reason"`
}

// Plan lists the files a backup would copy.
type Plan struct {
	Cutoff     time.Time   `json:"cutoff"`
	Candidates []Candidate `json:"candidates"`
}

// Report summarizes a backup run.
type Report struct {
	Plan
	Copied  int      `json:"copied"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Bytes   int64    `json:"bytes"`
	Errors  []string `json:"errors,omitempty"`
}

// Confirmer approves single copies. importer.Prompter satisfies it.
type Confirmer interface {
	ConfirmCopy(from, to string) (importer.Decision, error)
}

type fileInfo struct {
	size    int64
	modTime time.Time
}

// tree is the result of scanning one side.
type tree struct {
	files  map[string]fileInfo // keyed by slash-separated relative path
	newest time.Time
}

// scan walks root. A missing root is an empty tree.
func scan(ctx context.Context, root string) (*tree, error) {
	t := &tree{files: make(map[string]fileInfo)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() || filepath.Ext(path) == partialSuffix {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		t.files[filepath.ToSlash(rel)] = fileInfo{size: info.Size(), modTime: info.ModTime()}
		if info.ModTime().After(t.newest) {
			t.newest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return t, nil
}

// overlaps reports whether one of the cleaned paths contains the other.
func overlaps(a, b string) bool {
	return importer.ValidatePath(a, b) == nil || importer.ValidatePath(b, a) == nil
}

// NewPlan scans source and destination concurrently and selects source files
// modified after the cutoff that are missing from the destination or differ
// in size.
func NewPlan(ctx context.Context, cfg Config) (*Plan, error) {
	src, err := filepath.Abs(cfg.Source)
	if err != nil {
		return nil, err
	}
	dst, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return nil, err
	}
	if overlaps(src, dst) {
		return nil, fmt.Errorf("%w: %s, %s", ErrSameTree, src, dst)
	}

	var srcTree, dstTree *tree
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		srcTree, err = scan(gctx, src)
		return err
	})
	g.Go(func() error {
		var err error
		dstTree, err = scan(gctx, dst)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cutoff := cfg.Since
	if cutoff.IsZero() {
		cutoff = dstTree.newest
	}

	plan := &Plan{Cutoff: cutoff}
	for rel, info := range srcTree.files {
		if !info.modTime.After(cutoff) {
			continue
		}
		reason := ReasonMissing
		if existing, ok := dstTree.files[rel]; ok {
			if existing.size == info.size {
				continue
			}
			reason = ReasonSize
		}
		plan.Candidates = append(plan.Candidates, Candidate{
			Source:  filepath.Join(src, filepath.FromSlash(rel)),
			Dest:    filepath.Join(dst, filepath.FromSlash(rel)),
			Size:    info.size,
			ModTime: info.modTime,
			Reason:  reason,
		})
	}
	sort.Slice(plan.Candidates, func(i, j int) bool {
		return plan.Candidates[i].Source < plan.Candidates[j].Source
	})
	return plan, nil
}

// Backuper copies planned files, recording each copy in history.
type Backuper struct {
	cfg       Config
	confirmer Confirmer
	history   *importer.HistoryStore
	session   string
	log       *slog.Logger
}

// New creates a Backuper. confirmer and history may be nil.
func New(cfg Config, confirmer Confirmer, history *importer.HistoryStore, log *slog.Logger) *Backuper {
	return &Backuper{
		cfg:       cfg,
		confirmer: confirmer,
		history:   history,
		session:   importer.NewSession(),
		log:       log.With("component", "backup"),
	}
}

// Session returns the history session id of this backuper.
func (b *Backuper) Session() string { return b.session }

// Run plans and performs the backup. Per-file failures are collected in the
// report; only planning, confirmation and cancellation errors are returned.
func (b *Backuper) Run(ctx context.Context) (*Report, error) {
	plan, err := NewPlan(ctx, b.cfg)
	if err != nil {
		return nil, err
	}
	b.log.Info("backup planned", "path", b.cfg.Source, "dest", b.cfg.Destination,
		"cutoff", plan.Cutoff, "files", len(plan.Candidates))

	report := &Report{Plan: *plan}
	for _, c := range plan.Candidates {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if b.confirmer != nil {
			decision, err := b.confirmer.ConfirmCopy(c.Source, c.Dest)
			if err != nil {
				return report, fmt.Errorf("confirm backup: %w", err)
			}
			if decision.Action != importer.Accept {
				report.Skipped++
				continue
			}
		}

		if b.cfg.DryRun {
			b.log.Info("would back up", "path", c.Source, "dest", c.Dest, "reason", c.Reason)
			continue
		}

		size, err := replaceFile(c.Source, c.Dest)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, err.Error())
			b.log.Error("backup failed", "path", c.Source, "dest", c.Dest, "error", err)
			continue
		}
		report.Copied++
		report.Bytes += size
		b.log.Debug("backed up", "path", c.Source, "dest", c.Dest, "size_bytes", size)
		b.record(c)
	}

	b.log.Info("backup complete", "copied", report.Copied, "failed", report.Failed, "bytes", report.Bytes)
	return report, nil
}

// replaceFile copies src next to dst and renames it into place, so an
// interrupted copy never leaves a truncated dst.
func replaceFile(src, dst string) (int64, error) {
	partial := dst + partialSuffix
	_ = os.Remove(partial)

	size, err := importer.CopyFile(src, partial)
	if err != nil {
		return 0, err
	}
	if err := os.Rename(partial, dst); err != nil {
		_ = os.Remove(partial)
		return 0, fmt.Errorf("replace %s: %w", dst, err)
	}
	return size, nil
}

func (b *Backuper) record(c Candidate) {
	if b.history == nil {
		return
	}
	err := b.history.Add(&importer.HistoryEntry{
		Session: b.session,
		Action:  importer.ActionBackedUp,
		Source:  c.Source,
		Dest:    c.Dest,
	})
	if err != nil {
		b.log.Warn("record history failed", "path", c.Source, "error", err)
	}
}
