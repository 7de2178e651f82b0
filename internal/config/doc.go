// SPDX-License-Identifier: MPL-2.0

// Package config handles installbuilder configuration using Viper with CUE as
// the file format.
//
// Configuration is loaded from ~/.config/installbuilder/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/installbuilder/config.cue
// on macOS, %APPDATA%\installbuilder\config.cue on Windows), falling back to
// ./config.cue. Files are validated against the embedded config_schema.cue
// before being merged over the defaults.
package config
