// Package input resolves requirement text, pasted error text, and path
// hints from command-line arguments, files, and standard input.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRequirementFile is read when gen is given no requirement.
const DefaultRequirementFile = "requirements_brief.txt"

var (
	// ErrInputNotFound means a referenced input file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrEmptyRequirement means no source produced any requirement text.
	ErrEmptyRequirement = errors.New("no requirement given")
	// ErrEmptyErrorText means no source produced any error text to fix.
	ErrEmptyErrorText = errors.New("no error text given")
)

// AskFunc asks the user a one-line question.
type AskFunc func(question string) (string, error)

// Resolver reads user-supplied text. Relative paths resolve against WorkDir.
type Resolver struct {
	WorkDir string
	Stdin   io.Reader
	// Notice, when set, receives a hint before standard input is read for
	// pasted error text.
	Notice io.Writer
	// Ask, when set, is the last resort for a missing requirement.
	Ask AskFunc
}

// Requirement resolves the gen requirement argument:
//
//	"-"      read all of standard input
//	"@path"  read the file at path
//	""       read ./requirements_brief.txt if present
//	other    the literal text
//
// Blank results fall back to Ask.
func (r Resolver) Requirement(arg string) (string, error) {
	var text string
	switch {
	case arg == "-":
		b, err := io.ReadAll(r.stdin())
		if err != nil {
			return "", fmt.Errorf("reading requirement from stdin: %w", err)
		}
		text = string(b)
	case strings.HasPrefix(arg, "@"):
		s, err := r.ReadFile(arg[1:])
		if err != nil {
			return "", err
		}
		text = s
	case arg == "":
		s, err := r.ReadFile(DefaultRequirementFile)
		if err != nil && !errors.Is(err, ErrInputNotFound) {
			return "", err
		}
		text = s
	default:
		text = arg
	}

	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if r.Ask != nil {
		answer, err := r.Ask("Describe the deliverable")
		if err != nil {
			return "", err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			return answer, nil
		}
	}
	return "", ErrEmptyRequirement
}

// ErrorText joins inline error text and the contents of file with "\n".
// When both are blank it reads standard input until EOF.
func (r Resolver) ErrorText(inline, file string) (string, error) {
	text := inline
	if file != "" {
		s, err := r.ReadFile(file)
		if err != nil {
			return "", err
		}
		text += "\n" + s
	}

	if strings.TrimSpace(text) == "" {
		if r.Notice != nil {
			_, _ = fmt.Fprintln(r.Notice, "Paste errors, end with CTRL+D (Unix) or CTRL+Z (Windows):")
		}
		b, err := io.ReadAll(r.stdin())
		if err != nil {
			return "", fmt.Errorf("reading errors from stdin: %w", err)
		}
		text = string(b)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyErrorText
	}
	return text, nil
}

// ReadFile reads a UTF-8 text file. A leading ~ expands to the home directory.
func (r Resolver) ReadFile(path string) (string, error) {
	full, err := r.Abs(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full) //nolint:gosec // user-selected input file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrInputNotFound, full)
		}
		return "", fmt.Errorf("reading %s: %w", full, err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// PathHints resolves each path to an absolute path, one per line, each
// line terminated by "\n". The paths are not checked for existence.
func (r Resolver) PathHints(paths []string) (string, error) {
	var sb strings.Builder
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := r.Abs(p)
		if err != nil {
			return "", err
		}
		sb.WriteString(abs)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// Abs expands ~ and makes path absolute against WorkDir.
func (r Resolver) Abs(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if !filepath.IsAbs(path) {
		base := r.WorkDir
		if base == "" {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			base = wd
		}
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path), nil
}

func (r Resolver) stdin() io.Reader {
	if r.Stdin == nil {
		return strings.NewReader("")
	}
	return r.Stdin
}
