package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type fdWriter interface {
	Fd() uintptr
}

func isTerminal(v any) bool {
	f, ok := v.(fdWriter)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

func stdinIsTerminal() bool {
	return isTerminal(os.Stdin)
}

// readLine prints question and reads one line from r.
func readLine(w io.Writer, r io.Reader, question string) (string, error) {
	_, _ = fmt.Fprintf(w, "%s: ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
