// SPDX-License-Identifier: MPL-2.0

package datafile

import "strings"

type (
	// FileEntry is one record of the Files section:
	// "staged; base; permissions; owner; group[; type]".
	FileEntry struct {
		StagedLocation string `json:"staged_location" toml:"staged_location"`
		BaseLocation   string `json:"base_location" toml:"base_location"`
		Permissions    string `json:"permissions" toml:"permissions"`
		Owner          string `json:"owner" toml:"owner"`
		Group          string `json:"group" toml:"group"`
		// Type is an optional packager hint such as "conffile".
		Type string `json:"type,omitempty" toml:"type,omitempty"`
	}

	// DirectoryEntry is one record of the Directories section:
	// "staged; permissions; owner; group[; type]".
	DirectoryEntry struct {
		StagedLocation string `json:"staged_location" toml:"staged_location"`
		Permissions    string `json:"permissions" toml:"permissions"`
		Owner          string `json:"owner" toml:"owner"`
		Group          string `json:"group" toml:"group"`
		// Type is an optional packager hint such as "sysdir".
		Type string `json:"type,omitempty" toml:"type,omitempty"`
	}

	// LinkEntry is one record of the Links section:
	// "staged; target; permissions; owner; group".
	LinkEntry struct {
		StagedLocation string `json:"staged_location" toml:"staged_location"`
		BaseLocation   string `json:"base_location" toml:"base_location"`
		Permissions    string `json:"permissions" toml:"permissions"`
		Owner          string `json:"owner" toml:"owner"`
		Group          string `json:"group" toml:"group"`
	}
)

func newFileEntry(fields []string, line RawLine) (FileEntry, error) {
	if len(fields) < 5 || len(fields) > 6 {
		return FileEntry{}, lineErrorf(line, ErrFieldCount, "File entry needs 5 or 6 fields, got %d", len(fields))
	}
	e := FileEntry{
		StagedLocation: fields[0],
		BaseLocation:   fields[1],
		Permissions:    fields[2],
		Owner:          fields[3],
		Group:          fields[4],
	}
	if len(fields) == 6 {
		e.Type = fields[5]
	}
	return e, nil
}

func newDirectoryEntry(fields []string, line RawLine) (DirectoryEntry, error) {
	if len(fields) < 4 || len(fields) > 5 {
		return DirectoryEntry{}, lineErrorf(line, ErrFieldCount, "Directory entry needs 4 or 5 fields, got %d", len(fields))
	}
	e := DirectoryEntry{
		StagedLocation: fields[0],
		Permissions:    fields[1],
		Owner:          fields[2],
		Group:          fields[3],
	}
	if len(fields) == 5 {
		e.Type = fields[4]
	}
	return e, nil
}

func newLinkEntry(fields []string, line RawLine) (LinkEntry, error) {
	if len(fields) != 5 {
		return LinkEntry{}, lineErrorf(line, ErrFieldCount, "Link entry needs 5 fields, got %d", len(fields))
	}
	return LinkEntry{
		StagedLocation: fields[0],
		BaseLocation:   fields[1],
		Permissions:    fields[2],
		Owner:          fields[3],
		Group:          fields[4],
	}, nil
}

// splitFields splits a record on ';' and trims every field.
func splitFields(text string) []string {
	fields := strings.Split(text, ";")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// String renders the entry in datafile record syntax.
func (e FileEntry) String() string {
	return strings.Join([]string{e.StagedLocation, e.BaseLocation, e.Permissions, e.Owner, e.Group, e.Type}, "; ")
}

// String renders the entry in datafile record syntax.
func (e DirectoryEntry) String() string {
	return strings.Join([]string{e.StagedLocation, e.Permissions, e.Owner, e.Group, e.Type}, "; ")
}

// String renders the entry in datafile record syntax.
func (e LinkEntry) String() string {
	return strings.Join([]string{e.StagedLocation, e.BaseLocation, e.Permissions, e.Owner, e.Group}, "; ")
}
