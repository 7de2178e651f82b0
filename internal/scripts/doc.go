// SPDX-License-Identifier: MPL-2.0

// Package scripts turns the evaluated maintainer script sections of a
// manifest into shell files, checks their syntax with mvdan.cc/sh, and runs
// them in the embedded interpreter.
package scripts
