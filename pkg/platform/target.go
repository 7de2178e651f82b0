// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Platform values accepted in the PF build variable.
const (
	PlatformLinux  Platform = "Linux"
	PlatformSunOS  Platform = "SunOS"
	PlatformAIX    Platform = "AIX"
	PlatformHPUX   Platform = "HPUX"
	PlatformDarwin Platform = "Darwin"
)

// Package types accepted in the PACKAGE_TYPE build variable.
const (
	PackageRPM    PackageType = "RPM"
	PackageDPKG   PackageType = "DPKG"
	PackagePKG    PackageType = "PKG"
	PackageLPP    PackageType = "LPP"
	PackageDepot  PackageType = "DEPOT"
	PackageMacPKG PackageType = "MACPKG"
)

var (
	// ErrUnsupportedPlatform is the sentinel error wrapped by UnsupportedPlatformError.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// nativeFormats maps a platform to its package types. The first entry is
	// the default when PACKAGE_TYPE is empty; Linux has no default.
	nativeFormats = map[Platform][]PackageType{
		PlatformLinux:  {PackageRPM, PackageDPKG},
		PlatformSunOS:  {PackagePKG},
		PlatformAIX:    {PackageLPP},
		PlatformHPUX:   {PackageDepot},
		PlatformDarwin: {PackageMacPKG},
	}
)

type (
	// Platform is the value of the PF build variable.
	Platform string

	// PackageType is the native package format of a build.
	PackageType string

	// Target is a resolved platform and package format pair.
	Target struct {
		Platform    Platform
		PackageType PackageType
	}

	// UnsupportedPlatformError is returned when PF and PACKAGE_TYPE do not
	// name a supported target.
	UnsupportedPlatformError struct {
		Platform    Platform
		PackageType PackageType
	}
)

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	if e.PackageType == "" {
		return fmt.Sprintf("unsupported platform %q", e.Platform)
	}
	return fmt.Sprintf("unsupported platform %q with package type %q", e.Platform, e.PackageType)
}

// Unwrap returns ErrUnsupportedPlatform for errors.Is() compatibility.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }

// Resolve returns the Target selected by the PF and PACKAGE_TYPE values.
func Resolve(pf, packageType string) (Target, error) {
	p, pt := Platform(pf), PackageType(packageType)
	formats, ok := nativeFormats[p]
	if !ok {
		return Target{}, &UnsupportedPlatformError{Platform: p, PackageType: pt}
	}
	if pt == "" {
		if p == PlatformLinux {
			return Target{}, &UnsupportedPlatformError{Platform: p}
		}
		return Target{Platform: p, PackageType: formats[0]}, nil
	}
	for _, f := range formats {
		if f == pt {
			return Target{Platform: p, PackageType: pt}, nil
		}
	}
	return Target{}, &UnsupportedPlatformError{Platform: p, PackageType: pt}
}

// String returns "Platform/PackageType".
func (t Target) String() string {
	return string(t.Platform) + "/" + string(t.PackageType)
}

// String returns the PF value.
func (p Platform) String() string { return string(p) }

// IsValid returns whether the Platform is one of the supported platforms.
func (p Platform) IsValid() (bool, []error) {
	if _, ok := nativeFormats[p]; !ok {
		return false, []error{&UnsupportedPlatformError{Platform: p}}
	}
	return true, nil
}

// String returns the PACKAGE_TYPE value.
func (t PackageType) String() string { return string(t) }

// Extension returns the file extension of packages of type t, including the dot.
func (t PackageType) Extension() string {
	switch t {
	case PackageRPM:
		return ".rpm"
	case PackageDPKG:
		return ".deb"
	case PackagePKG, PackageMacPKG:
		return ".pkg"
	case PackageLPP:
		return ".lpp"
	case PackageDepot:
		return ".depot"
	default:
		return ""
	}
}

// HostPlatform returns the Platform of the running operating system, or ""
// when the host has no native packaging support.
func HostPlatform() Platform {
	return platformForGOOS(runtime.GOOS)
}

func platformForGOOS(goos string) Platform {
	switch goos {
	case Linux:
		return PlatformLinux
	case Darwin:
		return PlatformDarwin
	case Solaris, Illumos:
		return PlatformSunOS
	case AIX:
		return PlatformAIX
	default:
		return ""
	}
}
