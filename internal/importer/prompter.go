// internal/importer/prompter.go
package importer

//go:generate mockgen -destination=mocks/mock_prompter.go -package=mocks . Prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vmunix/mediarename/pkg/release"
)

// Action is the user's answer to a confirmation.
type Action int

const (
	Accept Action = iota
	Skip
	Replace
)

func (a Action) String() string {
	switch a {
	case Accept:
		return "accept"
	case Skip:
		return "skip"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Decision is an Action plus the replacement typed for Replace.
type Decision struct {
	Action Action
	Name   string
}

// Prompter asks the user about renames, copies and unknown media types.
type Prompter interface {
	// ConfirmRename asks whether from should be renamed to to. A Replace
	// decision carries a new file name.
	ConfirmRename(from, to string) (Decision, error)
	// ConfirmCopy asks whether from should be moved to to. A Replace decision
	// carries a different destination directory.
	ConfirmCopy(from, to string) (Decision, error)
	// AskMediaType asks which media type title belongs to.
	AskMediaType(title string, known []string) (string, error)
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalPrompter reads answers line by line.
type TerminalPrompter struct {
	in    *bufio.Scanner
	out   io.Writer
	title cases.Caser
}

// NewTerminalPrompter creates a prompter reading from in and writing to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:    bufio.NewScanner(in),
		out:   out,
		title: cases.Title(language.Und),
	}
}

func (p *TerminalPrompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *TerminalPrompter) confirm(verb, from, to, replaceHint string) (Decision, error) {
	fmt.Fprintf(p.out, "%s\n  from: %s\n  to:   %s\n[Y]es, [n]o, or type %s: ", verb, from, to, replaceHint)
	answer, err := p.readLine()
	if err != nil {
		return Decision{}, err
	}
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return Decision{Action: Accept}, nil
	case "n", "no":
		return Decision{Action: Skip}, nil
	}
	return Decision{Action: Replace, Name: answer}, nil
}

func (p *TerminalPrompter) ConfirmRename(from, to string) (Decision, error) {
	return p.confirm("rename", from, to, "a new name")
}

func (p *TerminalPrompter) ConfirmCopy(from, to string) (Decision, error) {
	return p.confirm("move", from, to, "another directory")
}

// AskMediaType lists the known types. Typed answers close to a known type use
// its spelling, new types are title cased. An empty answer returns "".
func (p *TerminalPrompter) AskMediaType(title string, known []string) (string, error) {
	fmt.Fprintf(p.out, "media type for %q", title)
	if len(known) > 0 {
		fmt.Fprintf(p.out, " (%s)", strings.Join(known, ", "))
	}
	fmt.Fprint(p.out, ": ")

	answer, err := p.readLine()
	if err != nil || answer == "" {
		return "", err
	}
	if match := release.Suggest(answer, known); match.Confidence == release.ConfidenceHigh {
		return match.Value, nil
	}
	return p.title.String(answer), nil
}
