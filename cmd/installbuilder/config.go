// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"installbuilder-cli/internal/config"
	"installbuilder-cli/internal/issue"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// newConfigCommand creates the `installbuilder config` command tree.
func newConfigCommand(app *App, rf *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage installbuilder configuration",
		Long: `Manage installbuilder configuration.

Configuration is stored in:
  - Linux: ~/.config/installbuilder/config.cue
  - macOS: ~/Library/Application Support/installbuilder/config.cue
  - Windows: %APPDATA%\installbuilder\config.cue

A config.cue in the working directory is used when the user file is absent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, showConfig(cmd.Context(), app, rf), rf.verbose)
		},
	})

	var (
		initDir   string
		initForce bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, initConfig(app.stdout, initDir, initForce), rf.verbose)
		},
	}
	initCmd.Flags().StringVar(&initDir, "dir", "", "directory to create config.cue in (default is the user config directory)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, showConfigPath(app.stdout, rf), rf.verbose)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: rf.configPath})
			if err != nil {
				return app.fail(cmd, newServiceError(err, issue.ConfigLoadFailedId, ""), rf.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, rf *rootFlagValues) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: rf.configPath})
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	out := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: rf.configPath})
	if err == nil && path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	section := func(name string) {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s:\n", keyStyle.Render(name))
	}
	value := func(key string, v any) {
		fmt.Fprintf(out, "  %s: %s\n", key, valueStyle.Render(fmt.Sprint(v)))
	}

	section("log")
	value("level", cfg.Log.Level)

	section("ui")
	value("color_scheme", cfg.UI.ColorScheme)
	value("verbose", cfg.UI.Verbose)

	section("datafile")
	value("path", cfg.Datafile.Path)

	section("staging")
	value("clean", cfg.Staging.Clean)
	if len(cfg.Staging.Exclude) == 0 {
		fmt.Fprintf(out, "  exclude: %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		value("exclude", strings.Join(cfg.Staging.Exclude, ", "))
	}

	section("scripts")
	value("lint", cfg.Scripts.Lint)
	value("dir", cfg.Scripts.Dir)

	section("packaging")
	value("runtime", cfg.Packaging.Runtime)
	value("shell", cfg.Packaging.Shell)
	if cfg.Packaging.Timeout > 0 {
		value("timeout", cfg.Packaging.Timeout)
	} else {
		fmt.Fprintf(out, "  timeout: %s\n", SubtitleStyle.Render("(none)"))
	}
	fmt.Fprintln(out, "  commands:")
	pkgTypes := maps.Keys(cfg.Packaging.Commands)
	slices.Sort(pkgTypes)
	for _, t := range pkgTypes {
		fmt.Fprintf(out, "    %s: %s\n", t, valueStyle.Render(cfg.Packaging.Commands[t]))
	}

	section("watch")
	value("debounce", cfg.Watch.Debounce)

	return nil
}

func initConfig(out io.Writer, dir string, force bool) error {
	path, err := config.CreateDefaultConfig(dir, force)
	if errors.Is(err, config.ErrConfigExists) {
		return issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			WithSuggestion("Use --force to overwrite it").
			Wrap(err).
			BuildError()
	}
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(out, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(out io.Writer, rf *rootFlagValues) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config directory: %s\n", cfgDir)

	path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: rf.configPath})
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintf(out, "Config file: %s\n", SubtitleStyle.Render("(none, using defaults)"))
		return nil
	}
	fmt.Fprintf(out, "Config file: %s\n", path)
	return nil
}
