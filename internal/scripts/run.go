// SPDX-License-Identifier: MPL-2.0

package scripts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

type (
	// RunOptions configures Run.
	RunOptions struct {
		// Env is added on top of the process environment when InheritEnv is
		// set, or used alone otherwise.
		Env        map[string]string
		InheritEnv bool
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Args are exposed as the positional parameters $1, $2 and so on.
		Args   []string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// AllowExec lets external programs run. When false, each external
		// command is logged and reported as successful so that maintainer
		// scripts can be previewed on a build host without side effects.
		AllowExec bool
		// Logger defaults to a discarding logger.
		Logger *log.Logger
	}

	// Result holds the outcome of Run.
	Result struct {
		ExitCode int
		// Skipped lists the external commands not executed because AllowExec was off.
		Skipped []string
	}
)

// Run interprets body with the mvdan.cc/sh interpreter. A non-zero exit
// status is reported in Result.ExitCode with a nil error; err is reserved for
// scripts that cannot be parsed or interpreted.
func Run(ctx context.Context, section, body string, opts RunOptions) (*Result, error) {
	prog, err := parse(section, body)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	res := &Result{}
	// Pipeline stages run on separate goroutines.
	var mu sync.Mutex

	runnerOpts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(environ(opts.Env, opts.InheritEnv)...)),
		interp.StdIO(opts.Stdin, orDiscard(opts.Stdout), orDiscard(opts.Stderr)),
	}
	if opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.Dir))
	}
	if !opts.AllowExec {
		runnerOpts = append(runnerOpts, interp.ExecHandlers(func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
			return func(_ context.Context, args []string) error {
				line := strings.Join(args, " ")
				logger.Info("skipped external command", "section", section, "cmd", line)
				mu.Lock()
				res.Skipped = append(res.Skipped, line)
				mu.Unlock()
				return nil
			}
		}))
	}
	// "--" stops arguments such as "-e" from being read as shell options.
	if len(opts.Args) > 0 {
		runnerOpts = append(runnerOpts, interp.Params(append([]string{"--"}, opts.Args...)...))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return nil, fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			res.ExitCode = int(status)
			return res, nil
		}
		return res, fmt.Errorf("run %s: %w", section, err)
	}
	return res, nil
}

// environ merges extra into the process environment (when inherit is set)
// as a sorted NAME=VALUE list; extra wins on conflicts.
func environ(extra map[string]string, inherit bool) []string {
	merged := make(map[string]string, len(extra))
	if inherit {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				merged[k] = v
			}
		}
	}
	for k, v := range extra {
		merged[k] = v
	}

	keys := maps.Keys(merged)
	slices.Sort(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+merged[k])
	}
	return out
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
