// SPDX-License-Identifier: MPL-2.0

// Package platform resolves the target platform and native package format of
// a build.
//
// The build variables PF and PACKAGE_TYPE select a Target. Linux builds must
// name their package type (RPM or DPKG); every other platform has exactly one
// native format. The package also detects application sandboxes (Flatpak,
// Snap) so that native packaging tools can be spawned on the host.
package platform
