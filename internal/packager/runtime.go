// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"installbuilder-cli/internal/config"
	"installbuilder-cli/internal/scripts"
	"installbuilder-cli/pkg/platform"
)

type (
	// Runtime executes a packaging command.
	Runtime interface {
		// Name identifies the runtime in logs.
		Name() string
		// Run executes command in inv.Dir and returns its exit code. The
		// error is non-nil only when the command could not be started.
		Run(ctx context.Context, command string, inv Invocation) (int, error)
	}

	// Invocation is the execution environment of a packaging command.
	Invocation struct {
		Dir    string
		Env    map[string]string
		Stdout io.Writer
		Stderr io.Writer
	}

	// NativeRuntime runs commands with "<Shell> -c" on the host.
	NativeRuntime struct {
		Shell string
	}

	// VirtualRuntime runs commands in the embedded mvdan.cc/sh interpreter.
	VirtualRuntime struct{}
)

// NewRuntime returns the Runtime selected by kind.
func NewRuntime(kind config.PackagingRuntime, shell string) (Runtime, error) {
	switch kind {
	case config.RuntimeNative, "":
		if shell == "" {
			shell = "/bin/sh"
		}
		return &NativeRuntime{Shell: shell}, nil
	case config.RuntimeVirtual:
		return &VirtualRuntime{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidPackagingRuntime, kind)
	}
}

// Name returns "native".
func (r *NativeRuntime) Name() string { return string(config.RuntimeNative) }

// Run executes command through the host shell. Inside a Flatpak or Snap
// sandbox the shell is started on the host.
func (r *NativeRuntime) Run(ctx context.Context, command string, inv Invocation) (int, error) {
	argv := platform.HostCommand(r.Shell, "-c", command)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), envList(inv.Env)...)
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	return -1, err
}

// Name returns "virtual".
func (r *VirtualRuntime) Name() string { return string(config.RuntimeVirtual) }

// Run interprets command with mvdan.cc/sh. External programs are executed.
func (r *VirtualRuntime) Run(ctx context.Context, command string, inv Invocation) (int, error) {
	res, err := scripts.Run(ctx, "packaging command", command, scripts.RunOptions{
		Env:        inv.Env,
		InheritEnv: true,
		Dir:        inv.Dir,
		Stdout:     inv.Stdout,
		Stderr:     inv.Stderr,
		AllowExec:  true,
	})
	if err != nil {
		return -1, err
	}
	return res.ExitCode, nil
}

func envList(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range sortedNames(env) {
		out = append(out, k+"="+env[k])
	}
	return out
}
