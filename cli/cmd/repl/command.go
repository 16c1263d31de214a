package repl

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// command is a control-mode command.
type command struct {
	name  string
	args  string
	usage string
}

var commands = []command{
	{name: "help", usage: "Print this help"},
	{name: "list", usage: "List declared constants"},
	{name: "show", args: "PATH", usage: "Print a constant or dict member as JSON"},
	{name: "source", usage: "Print the session as constl source"},
	{name: "edit", usage: "Edit all declarations in external $EDITOR"},
	{name: "clear", usage: "Clear screen"},
	{name: "quit", usage: "Exit REPL"},
}

// errUnknownCommand is returned by [model.output] for unrecognized commands.
var errUnknownCommand = errors.New("unknown command")

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

// resolveCommand returns the full command name for name or any unique prefix
// of it.
func resolveCommand(name string) (string, bool) {
	found := ""

	for _, c := range commands {
		if c.name == name {
			return c.name, true
		}

		if strings.HasPrefix(c.name, name) {
			if found != "" {
				return "", false
			}

			found = c.name
		}
	}

	return found, found != "" && name != ""
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\n: Commands (press Esc to toggle mode):\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-13s %s\n", strings.TrimSpace(c.name+" "+c.args), c.usage)
	}

	b.WriteString(`
Usage:
  Type a declaration (name = expr) to add constants to the session
  Type any other expression to query the constants (expr-lang syntax)
  Commands may be abbreviated to any unique prefix
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`)

	return b.String()
}

// execute runs a control-mode command line.
func (m model) execute(line string) (model, tea.Cmd) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return m, nil
	}

	echo := tea.Println(modeCtrl.echo(line))

	name, ok := resolveCommand(fields[0])
	if !ok {
		return m, tea.Println(errorStyle.Render(
			"Unknown command: " + fields[0] + " (try 'help')"))
	}

	switch name {
	case "quit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "clear":
		return m, tea.ClearScreen

	case "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	out, err := m.output(name, fields[1:])
	if err != nil {
		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// output returns the text printed by the commands that only report.
func (m model) output(name string, args []string) (string, error) {
	switch name {
	case "help":
		return helpMessage(), nil

	case "list":
		return m.listConstants(), nil

	case "show":
		if len(args) != 1 {
			return "", errors.New("usage: show PATH")
		}

		v, ok := m.session.lookupPath(args[0])
		if !ok {
			return "", fmt.Errorf("%s: not declared", args[0])
		}

		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}

		return string(data), nil

	case "source":
		src, err := m.session.Source(m.ctxFunc())
		if err != nil {
			return "", err
		}

		if src == "" {
			return hintStyle.Render("  (no constants)"), nil
		}

		return strings.TrimRight(src, "\n"), nil
	}

	return "", fmt.Errorf("%w: %s", errUnknownCommand, name)
}

func (m model) listConstants() string {
	if m.session.Env().Len() == 0 {
		return hintStyle.Render("  (no constants)")
	}

	var b strings.Builder

	for name, v := range m.session.Env().All() {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(formatPreview(v)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// edit opens the session source in the external editor.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.unchanged:
			return editUnchangedMsg{}
		case cmd.prog == nil:
			return editCancelledMsg{}
		}

		return editedMsg{prog: cmd.prog}
	})
}
