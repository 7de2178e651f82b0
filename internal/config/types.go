// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LogLevelDebug logs evaluation details.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs redefinitions and build steps.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only errors.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// RuntimeNative runs packaging commands with the host shell.
	RuntimeNative PackagingRuntime = "native"
	// RuntimeVirtual runs packaging commands in the embedded mvdan/sh interpreter.
	RuntimeVirtual PackagingRuntime = "virtual"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPackagingRuntime is returned when a PackagingRuntime value is not recognized.
	ErrInvalidPackagingRuntime = errors.New("invalid packaging runtime")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of log messages written to stderr.
	LogLevel string

	// ColorScheme is the terminal color scheme preference.
	ColorScheme string

	// PackagingRuntime selects how packaging commands are executed.
	PackagingRuntime string

	// InvalidValueError is returned for a config value outside its allowed set.
	// It wraps the sentinel of the field kind for errors.Is() compatibility.
	InvalidValueError struct {
		Field    string
		Value    string
		Allowed  []string
		sentinel error
	}

	// InvalidConfigError collects the field-level errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the installbuilder configuration.
	Config struct {
		Log       LogConfig       `json:"log" mapstructure:"log"`
		UI        UIConfig        `json:"ui" mapstructure:"ui"`
		Datafile  DatafileConfig  `json:"datafile" mapstructure:"datafile"`
		Staging   StagingConfig   `json:"staging" mapstructure:"staging"`
		Scripts   ScriptsConfig   `json:"scripts" mapstructure:"scripts"`
		Packaging PackagingConfig `json:"packaging" mapstructure:"packaging"`
		Watch     WatchConfig     `json:"watch" mapstructure:"watch"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}

	// DatafileConfig configures datafile lookup.
	DatafileConfig struct {
		// Path is the default DATAFILE_PATH.
		Path string `json:"path" mapstructure:"path"`
	}

	// StagingConfig configures staging tree population.
	StagingConfig struct {
		// Clean removes STAGING_DIR before staging.
		Clean bool `json:"clean" mapstructure:"clean"`
		// Exclude holds gitignore-style patterns; matching Files entries are not staged.
		Exclude []string `json:"exclude" mapstructure:"exclude"`
	}

	// ScriptsConfig configures maintainer script rendering.
	ScriptsConfig struct {
		// Lint parses every rendered script before writing it.
		Lint bool `json:"lint" mapstructure:"lint"`
		// Dir is the directory under INTERMEDIATE_DIR that receives scripts.
		Dir string `json:"dir" mapstructure:"dir"`
	}

	// PackagingConfig configures the native packaging step.
	PackagingConfig struct {
		Runtime PackagingRuntime `json:"runtime" mapstructure:"runtime"`
		// Shell is the interpreter used by the native runtime.
		Shell string `json:"shell" mapstructure:"shell"`
		// Commands maps a lower-case package type to its packaging command.
		Commands map[string]string `json:"commands" mapstructure:"commands"`
		// Timeout bounds a packaging command; zero means no limit.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// WatchConfig configures "eval --ib-watch".
	WatchConfig struct {
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: LogLevelInfo},
		UI:  UIConfig{ColorScheme: ColorSchemeAuto},
		Datafile: DatafileConfig{
			Path: ".",
		},
		Staging: StagingConfig{
			Exclude: []string{},
		},
		Scripts: ScriptsConfig{
			Lint: true,
			Dir:  "scripts",
		},
		Packaging: PackagingConfig{
			Runtime:  RuntimeNative,
			Shell:    "/bin/sh",
			Commands: DefaultPackagingCommands(),
		},
		Watch: WatchConfig{Debounce: 500 * time.Millisecond},
	}
}

// DefaultPackagingCommands returns the packaging command per package type.
// Commands see every datafile variable in their environment, plus
// PACKAGE_FILE (OUTPUTFILE with the package extension) and SCRIPTS_DIR.
func DefaultPackagingCommands() map[string]string {
	return map[string]string{
		"rpm":    `rpmbuild -bb --buildroot "$STAGING_DIR" --define "_topdir $INTERMEDIATE_DIR/rpm" --define "_rpmdir $TARGET_DIR" "$INTERMEDIATE_DIR/package.spec"`,
		"dpkg":   `dpkg-deb --build "$STAGING_DIR" "$TARGET_DIR/${PACKAGE_FILE:-}"`,
		"pkg":    `pkgmk -o -r "$STAGING_DIR" -d "$INTERMEDIATE_DIR/pkg" -f "$INTERMEDIATE_DIR/prototype" && pkgtrans -s "$INTERMEDIATE_DIR/pkg" "$TARGET_DIR/${PACKAGE_FILE:-package.pkg}" all`,
		"lpp":    `mkinstallp -d "$STAGING_DIR" -T "$INTERMEDIATE_DIR/lpp.template"`,
		"depot":  `swpackage -s "$INTERMEDIATE_DIR/package.psf" -x media_type=tape @ "$TARGET_DIR/${PACKAGE_FILE:-package.depot}"`,
		"macpkg": `pkgbuild --root "$STAGING_DIR" --scripts "$SCRIPTS_DIR" --identifier "${PACKAGE_ID:-$SHORT_NAME}" --version "$VERSION" "$TARGET_DIR/${PACKAGE_FILE:-package.pkg}"`,
	}
}

// Command returns the packaging command for a package type such as "RPM".
func (c PackagingConfig) Command(packageType string) (string, bool) {
	cmd, ok := c.Commands[strings.ToLower(packageType)]
	return cmd, ok && strings.TrimSpace(cmd) != ""
}

// IsValid returns whether the LogLevel is recognized. The zero value is valid.
func (l LogLevel) IsValid() (bool, []error) {
	return checkOneOf("log.level", string(l), ErrInvalidLogLevel,
		string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError))
}

// IsValid returns whether the ColorScheme is recognized. The zero value is valid.
func (c ColorScheme) IsValid() (bool, []error) {
	return checkOneOf("ui.color_scheme", string(c), ErrInvalidColorScheme,
		string(ColorSchemeAuto), string(ColorSchemeDark), string(ColorSchemeLight))
}

// IsValid returns whether the PackagingRuntime is recognized. The zero value is valid.
func (r PackagingRuntime) IsValid() (bool, []error) {
	return checkOneOf("packaging.runtime", string(r), ErrInvalidPackagingRuntime,
		string(RuntimeNative), string(RuntimeVirtual))
}

// IsValid returns whether every field of the Config is valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.Log.Level.IsValid,
		c.UI.ColorScheme.IsValid,
		c.Packaging.Runtime.IsValid,
	} {
		if ok, fieldErrs := check(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.Packaging.Timeout < 0 {
		errs = append(errs, fmt.Errorf("packaging.timeout: must not be negative, got %s", c.Packaging.Timeout))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must not be negative, got %s", c.Watch.Debounce))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func checkOneOf(field, value string, sentinel error, allowed ...string) (bool, []error) {
	if value == "" {
		return true, nil
	}
	for _, a := range allowed {
		if value == a {
			return true, nil
		}
	}
	return false, []error{&InvalidValueError{Field: field, Value: value, Allowed: allowed, sentinel: sentinel}}
}

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %q (must be one of: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Unwrap returns the field kind sentinel for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.sentinel }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
