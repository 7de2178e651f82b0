// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"installbuilder-cli/pkg/datafile"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const (
	// FormatText renders datafile-style sections.
	FormatText Format = "text"
	// FormatTOML renders the manifest as TOML.
	FormatTOML Format = "toml"

	// ManifestFileName is the export written into INTERMEDIATE_DIR.
	ManifestFileName = "manifest.toml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects a manifest rendering.
type Format string

// ParseFormat returns the Format named s. An empty s means FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q (want text or toml)", ErrUnknownFormat, s)
	}
}

// Write renders m to w in format f.
func Write(w io.Writer, m *datafile.Manifest, f Format) error {
	switch f {
	case FormatText, "":
		_, err := io.WriteString(w, Text(m))
		return err
	case FormatTOML:
		data, err := TOML(m)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Text renders the non-empty parts of m as datafile sections.
func Text(m *datafile.Manifest) string {
	var sb strings.Builder

	if len(m.Variables) > 0 {
		sb.WriteString("%Variables\n")
		for _, name := range sortedKeys(m.Variables) {
			fmt.Fprintf(&sb, "%s: %s\n", name, quote(m.Variables[name]))
		}
	}
	writeLines(&sb, datafile.SectionDefines, m.Defines)
	writeLines(&sb, datafile.SectionDirectories, stringsOf(m.Directories))
	writeLines(&sb, datafile.SectionFiles, stringsOf(m.Files))
	writeLines(&sb, datafile.SectionLinks, stringsOf(m.Links))
	for _, s := range m.Scripts {
		writeLines(&sb, s.Name, s.Lines)
	}
	writeLines(&sb, datafile.SectionDependencies, m.Dependencies)

	return sb.String()
}

// SectionText renders a single evaluated section under its header.
func SectionText(s *datafile.Section) string {
	var sb strings.Builder
	sb.WriteString("%" + s.Name + "\n")
	for _, l := range s.Text() {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// TOML encodes m with go-toml.
func TOML(m *datafile.Manifest) ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

// ReadTOML decodes a manifest previously written by TOML.
func ReadTOML(r io.Reader) (*datafile.Manifest, error) {
	var m datafile.Manifest
	if err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// WriteManifestFile stores the TOML export of m as dir/manifest.toml and
// returns its path.
func WriteManifestFile(fsys afero.Fs, dir string, m *datafile.Manifest) (string, error) {
	data, err := TOML(m)
	if err != nil {
		return "", err
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create manifest directory: %w", err)
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

func writeLines(sb *strings.Builder, header string, lines []string) {
	if len(lines) == 0 {
		return
	}
	sb.WriteString("%" + header + "\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}

func stringsOf[T fmt.Stringer](entries []T) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

// quote picks the quote character the datafile reader accepts for v.
func quote(v string) string {
	if strings.Contains(v, `"`) {
		return "'" + v + "'"
	}
	return `"` + v + `"`
}
