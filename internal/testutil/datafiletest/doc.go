// SPDX-License-Identifier: MPL-2.0

// Package datafiletest builds installbuilder datafiles for tests.
//
//	path := datafiletest.New().
//	    Variables("PACKAGE_NAME", "demo", "VERSION", "1.0").
//	    Section("Files", "f 0644 root root /opt/demo/README README").
//	    Write(t, dir, "demo.data")
package datafiletest
