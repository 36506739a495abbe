// Package tables reads and appends the flat "key: value" override files that
// feed the title, offset and media-type tables.
package tables

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrInvalidEntry is returned by Append for keys or values that cannot be
// stored on a single line.
var ErrInvalidEntry = errors.New("invalid table entry")

// Entry is one line of a table file.
type Entry struct {
	Key   string
	Value string
	Line  int
}

// Table holds the entries of a file in file order. Later duplicates win in Map.
type Table struct {
	Path    string
	Entries []Entry
}

// Map returns the entries keyed by Key.
func (t *Table) Map() map[string]string {
	m := make(map[string]string, len(t.Entries))
	for _, e := range t.Entries {
		m[e.Key] = e.Value
	}
	return m
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.Entries)
}

// Get returns the last value stored under key.
func (t *Table) Get(key string) (string, bool) {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i].Key == key {
			return t.Entries[i].Value, true
		}
	}
	return "", false
}

// Load reads the table at path. A missing file yields an empty table.
func Load(path string) (*Table, error) {
	t := &Table{Path: path}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	t.Entries, err = Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	return t, nil
}

// Parse reads entries from r. Blank lines, lines starting with '#' and lines
// without a separator are ignored.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}
		key, value, ok := splitEntry(text)
		if !ok {
			continue
		}
		entries = append(entries, Entry{Key: key, Value: value, Line: line})
	}
	return entries, scanner.Err()
}

// splitEntry splits at the first ": ", falling back to the first ':'.
func splitEntry(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ": ")
	if !ok {
		key, value, ok = strings.Cut(line, ":")
	}
	if !ok {
		return "", "", false
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// Append adds key: value to the file at path, creating it and its directory
// when absent. Concurrent writers are serialized with a lock file.
func Append(path, key, value string) error {
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" || strings.ContainsAny(key+value, "\r\n") || strings.HasPrefix(key, "#") {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, key)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock table: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	prefix, err := separatorNeeded(f)
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s%s: %s\n", prefix, key, value); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// separatorNeeded returns "\n" when a non-empty file lacks a trailing newline.
func separatorNeeded(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return "", err
	}
	if last[0] == '\n' {
		return "", nil
	}
	return "\n", nil
}

// EnsureFile creates an empty table with a comment header when path is absent.
func EnsureFile(path, header string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
		if _, err := fmt.Fprintf(f, "# %s\n", line); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
