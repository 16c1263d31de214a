package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/constl/lang"
	"github.com/ardnew/constl/log"
)

const defaultEditor = "vi"

// editCommand is the [tea.ExecCommand] behind the edit command. It writes the
// session source to a temporary file and opens it in the user's editor until
// the result parses, the user gives up, or nothing was changed.
type editCommand struct {
	session *Session
	ctxFunc func() context.Context
	logger  log.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Results, read by the tea.Exec callback.
	prog      *lang.Program // nil when cancelled
	unchanged bool
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run returns [ErrEditDeclined] if the user refuses to fix a parse error.
// Emptying the file cancels the edit.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := c.session.Source(ctx)
	if err != nil {
		return fmt.Errorf("format session: %w", err)
	}

	path, err := tempSource()
	if err != nil {
		return err
	}
	defer os.Remove(path)

	original := xxh3.HashString(content)

	for attempt := 1; ; attempt++ {
		edited, err := c.edit(ctx, path, content)
		if err != nil {
			return err
		}

		switch {
		case strings.TrimSpace(edited) == "":
			return nil

		case xxh3.HashString(edited) == original:
			c.unchanged = true

			return nil
		}

		prog, err := c.session.parse(ctx, edited)
		c.logger.TraceContext(ctx, "repl edit parsed",
			slog.Int("attempt", attempt),
			slog.Int("bytes", len(edited)),
			slog.Bool("ok", err == nil),
		)

		if err == nil {
			c.prog = prog

			return nil
		}

		fmt.Fprintf(c.stderr, "\nParse error: %s\n", err)

		if !confirm(c.stdin, c.stdout, "Re-edit? [Y/n] ") {
			return ErrEditDeclined
		}

		content = edited
	}
}

// edit writes content to path, runs the editor on it, and returns what the
// editor saved.
func (c *editCommand) edit(ctx context.Context, path, content string) (string, error) {
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", err
	}

	args := editorCommand()

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w", args[0], err)
	}

	data, err := os.ReadFile(path)

	return string(data), err
}

// tempSource creates an empty private file for editing.
func tempSource() (string, error) {
	f, err := os.CreateTemp("", "constl-repl-*.cst")
	if err != nil {
		return "", err
	}

	if err := errors.Join(f.Chmod(0o600), f.Close()); err != nil {
		os.Remove(f.Name())

		return "", err
	}

	return f.Name(), nil
}

// editorCommand returns the editor and its arguments from $VISUAL or
// $EDITOR, so values such as "code --wait" work.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if args := strings.Fields(os.Getenv(env)); len(args) > 0 {
			return args
		}
	}

	return []string{defaultEditor}
}

// confirm prints prompt and reads one answer from r. Anything but "n" or
// "no" is yes; end of input is no.
func confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))

	return !slices.Contains([]string{"n", "no"}, answer)
}
