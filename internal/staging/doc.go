// SPDX-License-Identifier: MPL-2.0

// Package staging populates the staging tree of a build from an evaluated
// manifest: it creates every Directories entry, copies every Files entry from
// BASE_DIR preserving mode and modification time, and creates every Links
// entry as a symbolic link.
package staging
