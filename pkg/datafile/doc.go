// SPDX-License-Identifier: MPL-2.0

// Package datafile evaluates installbuilder datafiles.
//
// A datafile is plain text split into named sections by "%Name" header lines.
// Sections hold file records (Files, Directories, Links), maintainer script
// fragments (Preinstall, Postinstall, ...), dependency specifiers, and the
// Variables/Defines declarations that drive a small preprocessor language:
// "#if VAR OP VALUE", "#ifdef NAME", "#ifndef NAME", "#elseif", "#elseifdef",
// "#else", "#endif" and "#include SECTION", plus "${{NAME}}" substitution.
//
// Evaluation is owned by an EvaluationContext, created once per build:
//
//	ec := datafile.New()
//	if err := ec.Load(dir, files); err != nil { ... }
//	if err := ec.EvaluateVariablesAndDefines(); err != nil { ... }
//	ec.ApplyOverrides(overrides)
//	manifest, err := ec.EvaluateAll()
//
// Every failure is returned as an error wrapping one of the Err* sentinels.
// Errors tied to a datafile position are *LineError values; errors tied to a
// whole section are *SectionError values.
package datafile
