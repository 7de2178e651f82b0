// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home directory variable at dir and
// returns a cleanup function restoring the original value. On Windows it
// sets USERPROFILE, elsewhere HOME. XDG_CONFIG_HOME is unset on Linux so that
// config lookups fall back to dir/.config.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		restoreHome := MustSetenv(t, "HOME", dir)
		restoreXDG := MustUnsetenv(t, "XDG_CONFIG_HOME")
		return func() {
			restoreXDG()
			restoreHome()
		}
	}
}
