package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zerolayer/zerolayer/internal/store"
)

// readLine reads a single line from in without buffering past the
// newline, so several prompts can share one input stream.
func readLine(in io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			return sb.String(), err
		}
	}
}

// confirm asks a yes/no question and reports whether the answer was
// affirmative. Read errors and empty answers count as "no".
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	line, err := readLine(in)
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// selectEnvironment prints a numbered list of environments and reads a
// selection, accepted either as a list index or an identifier token.
func selectEnvironment(in io.Reader, out io.Writer, envs []store.Environment, question string) (store.Environment, error) {
	if len(envs) == 0 {
		return store.Environment{}, errors.New("no environments to select from")
	}

	fmt.Fprintln(out, question)
	for i, env := range envs {
		fmt.Fprintf(out, "  %d) %s\n", i+1, env.Name())
	}
	fmt.Fprint(out, "Selection: ")

	line, err := readLine(in)
	if err != nil && line == "" {
		return store.Environment{}, fmt.Errorf("read selection: %w", err)
	}
	choice := strings.TrimSpace(line)

	if n, convErr := strconv.Atoi(choice); convErr == nil {
		if n < 1 || n > len(envs) {
			return store.Environment{}, fmt.Errorf("selection %d out of range 1-%d", n, len(envs))
		}
		return envs[n-1], nil
	}

	for _, env := range envs {
		if env.ID.String() == choice {
			return env, nil
		}
	}
	return store.Environment{}, fmt.Errorf("no environment matches selection %q", choice)
}
