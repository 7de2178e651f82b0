// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"installbuilder-cli/internal/config"
	"installbuilder-cli/internal/issue"
	"installbuilder-cli/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App reference.
	App struct {
		Config config.Provider
		Fs     afero.Fs
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Fs     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
	}

	// session is the state of one command invocation: the loaded
	// configuration and the logger built from it.
	session struct {
		app     *App
		cfg     *config.Config
		logger  *log.Logger
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	return &App{
		Config: deps.Config,
		Fs:     deps.Fs,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// newSession loads the configuration and builds the invocation logger. The
// logger also becomes the log/slog default.
func (a *App) newSession(ctx context.Context, configPath string, verbose bool) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId, "")
	}
	if !verbose {
		verbose = cfg.UI.Verbose
	}

	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}

	logger := newLogger(a.stderr, cfg.Log.Level, verbose)
	slog.SetDefault(slog.New(logger))

	return &session{app: a, cfg: cfg, logger: logger, verbose: verbose}, nil
}

// newLogger returns a logger writing to w at level, or at debug level when
// verbose is set.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: config.AppName,
	})
}

// component returns the session logger with a component prefix.
func (s *session) component(name string) *log.Logger {
	return s.logger.WithPrefix(config.AppName + "/" + name)
}

// fail prints err to stderr and converts it into an *ExitError that the
// Execute error handler does not print again.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	if err == nil {
		return nil
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err == nil {
			return exitErr
		}
		err = exitErr.Err
	}

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(a.stderr, svcErr)
	}

	code := types.ExitFailure
	if exitErr != nil {
		code = exitErr.Code
	}
	return &ExitError{Code: code, Err: err}
}
