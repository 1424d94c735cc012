package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

// UsageError reports a malformed command line.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

type command struct {
	usage string
	run   func(ctx context.Context, a *App, args []string, stdin io.Reader) error
}

const (
	usageList   = "list"
	usageGet    = "get <name> [--raw]"
	usageCreate = "create <name> [--content text | --from-file path | --stdin]"
	usageDelete = "delete <name>"
	usageCd     = "cd <path> [--no-autocreate]"
	usagePwd    = "pwd"
)

// commands maps every command name, aliases included, to its implementation.
var commands = map[string]command{
	"list":   {usage: usageList, run: runList},
	"ls":     {usage: usageList, run: runList},
	"get":    {usage: usageGet, run: runGet},
	"cat":    {usage: usageGet, run: runGet},
	"create": {usage: usageCreate, run: runCreate},
	"delete": {usage: usageDelete, run: runDelete},
	"rm":     {usage: usageDelete, run: runDelete},
	"cd":     {usage: usageCd, run: runChangeDir},
	"pwd":    {usage: usagePwd, run: runWorkingDir},
}

// Usage lists the commands, one usage line each.
func Usage() string {
	seen := make(map[string]bool)
	var lines []string
	for _, cmd := range commands {
		if !seen[cmd.usage] {
			seen[cmd.usage] = true
			lines = append(lines, "  "+cmd.usage)
		}
	}
	lines = append(lines, "  shell")
	sort.Strings(lines)
	return "commands:\n" + strings.Join(lines, "\n")
}

// Dispatch runs one command line against the app.
func (a *App) Dispatch(ctx context.Context, args []string, stdin io.Reader) error {
	if len(args) == 0 {
		return usagef("missing command\n%s", Usage())
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return usagef("unknown command %q\n%s", args[0], Usage())
	}
	return cmd.run(ctx, a, args[1:], stdin)
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseArgs(fs *pflag.FlagSet, args []string, want int, usage string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, usagef("%v\nusage: %s", err, usage)
	}
	if fs.NArg() != want {
		return nil, usagef("usage: %s", usage)
	}
	return fs.Args(), nil
}

func runList(ctx context.Context, a *App, args []string, _ io.Reader) error {
	if _, err := parseArgs(newFlagSet("list"), args, 0, usageList); err != nil {
		return err
	}
	return a.Handler.ListFiles(ctx)
}

func runGet(ctx context.Context, a *App, args []string, _ io.Reader) error {
	fs := newFlagSet("get")
	raw := fs.Bool("raw", false, "write file bytes instead of a JSON record")
	rest, err := parseArgs(fs, args, 1, usageGet)
	if err != nil {
		return err
	}
	return a.Handler.ReadFile(ctx, rest[0], *raw)
}

func runCreate(ctx context.Context, a *App, args []string, stdin io.Reader) error {
	fs := newFlagSet("create")
	text := fs.String("content", "", "file content")
	fromFile := fs.String("from-file", "", "read content from a local file")
	fromStdin := fs.Bool("stdin", false, "read content from standard input")
	rest, err := parseArgs(fs, args, 1, usageCreate)
	if err != nil {
		return err
	}

	sources := 0
	for _, set := range []bool{fs.Changed("content"), *fromFile != "", *fromStdin} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return usagef("--content, --from-file and --stdin are mutually exclusive")
	}

	var content []byte
	switch {
	case fs.Changed("content"):
		content = []byte(*text)
	case *fromFile != "":
		content, err = os.ReadFile(*fromFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", *fromFile, err)
		}
	case *fromStdin:
		if stdin == nil {
			return usagef("--stdin is not available here")
		}
		content, err = io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	return a.Handler.CreateFile(ctx, rest[0], content)
}

func runDelete(ctx context.Context, a *App, args []string, _ io.Reader) error {
	rest, err := parseArgs(newFlagSet("delete"), args, 1, usageDelete)
	if err != nil {
		return err
	}
	return a.Handler.DeleteFile(ctx, rest[0])
}

func runChangeDir(ctx context.Context, a *App, args []string, _ io.Reader) error {
	fs := newFlagSet("cd")
	noAutocreate := fs.Bool("no-autocreate", false, "fail when the directory does not exist")
	rest, err := parseArgs(fs, args, 1, usageCd)
	if err != nil {
		return err
	}
	return a.Handler.ChangeDir(ctx, rest[0], !*noAutocreate)
}

func runWorkingDir(_ context.Context, a *App, args []string, _ io.Reader) error {
	if _, err := parseArgs(newFlagSet("pwd"), args, 0, usagePwd); err != nil {
		return err
	}
	return a.Handler.WorkingDir()
}

func isUsage(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}
