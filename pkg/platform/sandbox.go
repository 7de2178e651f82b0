// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches sandbox detection for the lifetime of the process.
// detectSandboxFrom must not panic: sync.OnceValue re-panics on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the application sandbox the process runs in, if any.
type SandboxType string

// DetectSandbox returns the sandbox of the current process.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostCommand returns the argv that runs name with args on the host. Inside
// a sandbox the packaging tools live outside the sandbox, so the command is
// wrapped with the sandbox's spawn helper.
func HostCommand(name string, args ...string) []string {
	return hostCommandFor(DetectSandbox(), name, args)
}

func hostCommandFor(st SandboxType, name string, args []string) []string {
	var prefix []string
	switch st {
	case SandboxFlatpak:
		prefix = []string{"flatpak-spawn", "--host"}
	case SandboxSnap:
		prefix = []string{"snap", "run", "--shell"}
	}
	argv := make([]string, 0, len(prefix)+1+len(args))
	argv = append(argv, prefix...)
	argv = append(argv, name)
	return append(argv, args...)
}

// detectSandboxFrom performs detection with injectable lookups so tests do
// not depend on process-wide state. Flatpak takes precedence over Snap.
func detectSandboxFrom(getenv func(string) string, stat func(string) error) SandboxType {
	if err := stat("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if getenv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
