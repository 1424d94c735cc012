package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"fileservice/internal/response"
	"fileservice/internal/sentryx"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2

	FlushTimeout = 2 * time.Second
)

// Run parses global flags, executes one command and returns the exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("fileservice", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SetInterspersed(false)

	var opts Options
	flags.StringVarP(&opts.WorkDir, "dir", "d", "", "working directory")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config file")
	flags.BoolVar(&opts.NoAutocreate, "no-autocreate", false, "fail when the working directory does not exist")
	flags.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")
	help := flags.BoolP("help", "h", false, "show usage")

	if err := flags.Parse(args); err != nil {
		response.Usage(stdout, fmt.Sprintf("%v\n%s", err, Usage()))
		return ExitUsage
	}
	if *help {
		fmt.Fprintf(stdout, "usage: fileservice [flags] <command>\n\nflags:\n%s\n%s\n", flags.FlagUsages(), Usage())
		return ExitOK
	}
	if flags.NArg() == 0 {
		response.Usage(stdout, "missing command\n"+Usage())
		return ExitUsage
	}

	opts.Stdout = stdout
	opts.Stderr = stderr
	a, err := New(opts)
	if err != nil {
		response.Error(stdout, err)
		return ExitFailure
	}
	defer a.cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := flags.Args()
	if cmd[0] == "shell" {
		if len(cmd) > 1 {
			response.Usage(stdout, "usage: shell")
			return ExitUsage
		}
		return a.Shell(ctx, stdin)
	}
	return a.exec(ctx, cmd, stdin)
}

// Shell reads one command per line until EOF, "exit" or "quit". A failing
// command is reported and the loop continues. The exit code is that of the
// last command.
func (a *App) Shell(ctx context.Context, in io.Reader) int {
	if in == nil {
		in = strings.NewReader("")
	}
	code := ExitOK
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			a.Logger.Info("Interrupted, leaving shell")
			return ExitFailure
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		// Shell commands never read stdin for content; it carries commands.
		code = a.exec(ctx, strings.Fields(line), nil)
	}
	if err := scanner.Err(); err != nil {
		a.Logger.Error("Reading commands: %v", err)
		return ExitFailure
	}
	return code
}

func (a *App) exec(ctx context.Context, args []string, stdin io.Reader) (code int) {
	defer a.recoverPanic(args, &code)

	err := a.Dispatch(ctx, args, stdin)
	switch {
	case err == nil:
		return ExitOK
	case isUsage(err):
		response.Usage(a.Stdout, err.Error())
		return ExitUsage
	default:
		response.Error(a.Stdout, err)
		return ExitFailure
	}
}

func (a *App) recoverPanic(args []string, code *int) {
	rec := recover()
	if rec == nil {
		return
	}
	a.Logger.ErrorWithStack("Command panicked", fmt.Errorf("%v", rec))
	sentryx.CaptureMessage(
		sentry.LevelFatal,
		"command panic args=%q panic=%v stack=%s",
		args,
		rec,
		string(debug.Stack()),
	)
	response.Error(a.Stdout, errors.New("internal error"))
	*code = ExitFailure
}

func (a *App) cleanup() {
	if a == nil {
		return
	}
	if path := a.Config.MetricsFile; path != "" {
		if err := prometheus.WriteToTextfile(path, a.Registry); err != nil {
			a.Logger.Warn("Writing metrics to %s: %v", path, err)
		}
	}
	sentryx.Flush(FlushTimeout)
}
