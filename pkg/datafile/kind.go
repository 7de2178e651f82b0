// SPDX-License-Identifier: MPL-2.0

package datafile

// SectionKind classifies a section by the rules used to evaluate it.
type SectionKind int

const (
	// KindPlain is any section whose name is not one of the well-known
	// sections. Plain sections are free text, typically include targets.
	KindPlain SectionKind = iota
	// KindFile sections tokenize into File, Directory or Link entries.
	KindFile
	// KindScript sections are maintainer script bodies; numbered fragments
	// of the same base name are combined.
	KindScript
	// KindDependency sections are literal dependency specifiers.
	KindDependency
	// KindVariable sections populate the variable registry and define set.
	KindVariable
)

// Well-known section names.
const (
	SectionFiles         = "Files"
	SectionDirectories   = "Directories"
	SectionLinks         = "Links"
	SectionPreinstall    = "Preinstall"
	SectionPostinstall   = "Postinstall"
	SectionPreuninstall  = "Preuninstall"
	SectionPostuninstall = "Postuninstall"
	SectionPreupgrade    = "Preupgrade"
	SectionIConfig       = "iConfig"
	SectionRConfig       = "rConfig"
	SectionDependencies  = "Dependencies"
	SectionVariables     = "Variables"
	SectionDefines       = "Defines"
)

var (
	// FileSections lists the File-kind sections in evaluation order.
	FileSections = []string{SectionFiles, SectionDirectories, SectionLinks}

	// ScriptSections lists the Script-kind base names in evaluation order.
	ScriptSections = []string{
		SectionPreinstall,
		SectionPostinstall,
		SectionPreuninstall,
		SectionPostuninstall,
		SectionIConfig,
		SectionRConfig,
		SectionPreupgrade,
	}

	// DependencySections lists the Dependency-kind sections.
	DependencySections = []string{SectionDependencies}

	sectionKinds = map[string]SectionKind{
		SectionFiles:         KindFile,
		SectionDirectories:   KindFile,
		SectionLinks:         KindFile,
		SectionPreinstall:    KindScript,
		SectionPostinstall:   KindScript,
		SectionPreuninstall:  KindScript,
		SectionPostuninstall: KindScript,
		SectionPreupgrade:    KindScript,
		SectionIConfig:       KindScript,
		SectionRConfig:       KindScript,
		SectionDependencies:  KindDependency,
		SectionVariables:     KindVariable,
		SectionDefines:       KindVariable,
	}
)

// KindOf returns the kind of the named section.
func KindOf(name string) SectionKind {
	if k, ok := sectionKinds[name]; ok {
		return k
	}
	return KindPlain
}

// Reopenable reports whether a section of this kind may be opened by more
// than one header across the input datafiles.
func (k SectionKind) Reopenable() bool {
	return k == KindFile || k == KindDependency || k == KindVariable
}

// skipsBlank reports whether blank lines are dropped during evaluation.
func (k SectionKind) skipsBlank() bool {
	return k == KindFile || k == KindDependency || k == KindVariable
}

// String returns a human-readable name for the kind.
func (k SectionKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindScript:
		return "script"
	case KindDependency:
		return "dependency"
	case KindVariable:
		return "variable"
	default:
		return "plain"
	}
}
