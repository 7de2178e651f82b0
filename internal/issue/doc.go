// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable, user-facing errors for installbuilder.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The issue catalog holds a Markdown help page per error
// category, rendered for the terminal with glamour.
package issue
