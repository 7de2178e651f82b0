// SPDX-License-Identifier: MPL-2.0

// Package report renders evaluated manifests for humans and tools and
// compares two renderings.
//
// The text format reuses datafile section headers so that output reads like
// a fully evaluated datafile; the TOML format is the machine-readable export
// written to INTERMEDIATE_DIR/manifest.toml.
package report
