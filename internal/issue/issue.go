// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies an issue category in the catalog.
type Id int

const (
	DatafileNotFoundId Id = iota + 1
	DatafileParseErrorId
	MissingBuildVariableId
	UnsupportedPlatformId
	StagingFailedId
	ScriptInvalidId
	ScriptExecutionFailedId
	PackageToolFailedId
	ConfigLoadFailedId
	InvalidArgumentsId
)

type (
	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue page for the terminal with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if links := append(i.DocLinks(), i.extLinks...); len(links) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range links {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	datafileNotFoundIssue = &Issue{
		id: DatafileNotFoundId,
		mdMsg: `
# Datafile not found!

One of the datafiles named on the command line could not be opened.

## Things you can try:
- Datafile names are relative to ` + "`DATAFILE_PATH`" + `; pass it explicitly:
~~~
$ installbuilder build --DATAFILE_PATH=./installer/datafiles base.data linux.data
~~~
- Set ` + "`datafile.path`" + ` in your config file to change the default location
- Check the spelling and the order of the datafile arguments`,
	}

	datafileParseErrorIssue = &Issue{
		id: DatafileParseErrorId,
		mdMsg: `
# Failed to evaluate datafile!

A datafile contains invalid syntax. The error names the file and line.

## Common causes:
- Variables must be written as ` + "`NAME: 'value'`" + ` or ` + "`NAME: \"value\"`" + `
- Defines must be a single word
- Every ` + "`#if`" + `, ` + "`#ifdef`" + ` and ` + "`#ifndef`" + ` needs a matching ` + "`#endif`" + ` in the same section
- ` + "`#if`" + ` compares exactly one ` + "`VAR OP VALUE`" + ` triple; ` + "`>`" + `, ` + "`<`" + ` and friends need numbers
- Files entries need 5 or 6 fields, Directories 4 or 5, Links exactly 5
- Script sections such as ` + "`%Preinstall`" + ` may only be declared once; use numbered fragments (` + "`%Preinstall_10`" + `)

## Things you can try:
~~~
$ installbuilder eval base.data linux.data --ib-verbose
~~~`,
	}

	missingBuildVariableIssue = &Issue{
		id: MissingBuildVariableId,
		mdMsg: `
# Missing build variable!

A build needs BASE_DIR, INTERMEDIATE_DIR, TARGET_DIR, STAGING_DIR and PF.
Linux builds also need PACKAGE_TYPE.

## Things you can try:
- Pass them on the command line:
~~~
$ installbuilder build --BASE_DIR=. --STAGING_DIR=./staging \
    --INTERMEDIATE_DIR=./intermediate --TARGET_DIR=./target \
    --PF=Linux --PACKAGE_TYPE=RPM base.data
~~~
- Or declare them in a ` + "`%Variables`" + ` section`,
	}

	unsupportedPlatformIssue = &Issue{
		id: UnsupportedPlatformId,
		mdMsg: `
# Unsupported platform!

The PF and PACKAGE_TYPE variables do not name a supported target.

## Supported targets:
| PF     | PACKAGE_TYPE |
|--------|--------------|
| Linux  | RPM, DPKG    |
| SunOS  | PKG          |
| AIX    | LPP          |
| HPUX   | DEPOT        |
| Darwin | MACPKG       |`,
	}

	stagingFailedIssue = &Issue{
		id: StagingFailedId,
		mdMsg: `
# Failed to populate the staging directory!

A file, directory or link from the datafiles could not be created under STAGING_DIR.

## Things you can try:
- Check that every Files base location exists under BASE_DIR
- Check write permissions on STAGING_DIR
- Remove a stale staging tree, or set ` + "`staging.clean: true`" + ` in your config`,
	}

	scriptInvalidIssue = &Issue{
		id: ScriptInvalidId,
		mdMsg: `
# Invalid maintainer script!

An evaluated script section is not valid POSIX shell.

## Things you can try:
~~~
$ installbuilder script lint Preinstall base.data linux.data
~~~
- Set ` + "`scripts.lint: false`" + ` in your config to skip the check`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

A maintainer script exited with a non-zero status when run in the sandboxed shell.

## Things you can try:
- Print the evaluated script:
~~~
$ installbuilder eval --ib-section Preinstall base.data linux.data
~~~
- Scripts run in an isolated interpreter; commands that only exist on the target may fail here`,
	}

	packageToolFailedIssue = &Issue{
		id: PackageToolFailedId,
		mdMsg: `
# Packaging tool failed!

The native packaging command configured for this target failed.

## Things you can try:
- Inspect the command with ` + "`installbuilder config show`" + ` (packaging.commands)
- Check that the tool (rpmbuild, dpkg-deb, pkgmk, swpackage, mkinstallp, pkgbuild) is installed
- Re-run with ` + "`--SKIP_BUILDING_PACKAGE`" + ` to stop after staging`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
~~~
$ installbuilder config path
$ installbuilder config dump
~~~
- Delete the file and run ` + "`installbuilder config init`" + ` to start over`,
	}

	invalidArgumentsIssue = &Issue{
		id: InvalidArgumentsId,
		mdMsg: `
# Invalid arguments!

Arguments are datafile names, ` + "`--NAME=VALUE`" + ` variables, ` + "`--NAME`" + ` defines,
and installbuilder options prefixed with ` + "`--ib-`" + `.

~~~
$ installbuilder build --ib-help
~~~`,
	}

	issues = map[Id]*Issue{
		datafileNotFoundIssue.Id():      datafileNotFoundIssue,
		datafileParseErrorIssue.Id():    datafileParseErrorIssue,
		missingBuildVariableIssue.Id():  missingBuildVariableIssue,
		unsupportedPlatformIssue.Id():   unsupportedPlatformIssue,
		stagingFailedIssue.Id():         stagingFailedIssue,
		scriptInvalidIssue.Id():         scriptInvalidIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		packageToolFailedIssue.Id():     packageToolFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		invalidArgumentsIssue.Id():      invalidArgumentsIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
