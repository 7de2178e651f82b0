// SPDX-License-Identifier: MPL-2.0

// Package packager hands a staged build to the platform's native packaging
// tool.
//
// The tool is a configured shell command per package type. It runs in
// TARGET_DIR with every evaluated datafile variable in its environment, plus
// PACKAGE_TYPE, PACKAGE_FILE and SCRIPTS_DIR. Two runtimes are available: the
// native runtime runs the command with the host shell; the virtual runtime
// interprets it with mvdan.cc/sh so that builds do not depend on a system
// /bin/sh.
package packager
