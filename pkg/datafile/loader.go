// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// maxLineSize bounds a single datafile line.
const maxLineSize = 1024 * 1024

// Load reads the named datafiles from dir, in order, into the section map.
// Error positions use the file names as given.
func (c *EvaluationContext) Load(dir string, files []string) error {
	for _, name := range files {
		path := filepath.Join(dir, name)
		f, err := c.fs.Open(path)
		if err != nil {
			return fmt.Errorf("open datafile %s: %w", path, err)
		}
		err = c.LoadReader(name, f)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadReader reads one datafile from r. name is used for error positions.
func (c *EvaluationContext) LoadReader(name string, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	current := ""
	number := 0
	for sc.Scan() {
		number++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if number == 1 {
			text = strings.TrimPrefix(text, "\uFEFF")
		}
		line := RawLine{Text: text, File: name, Number: number}

		if strings.HasPrefix(text, "%") {
			if strings.HasPrefix(text, "%%") {
				continue
			}
			section := strings.TrimRight(text[1:], " \t")
			if err := c.openSection(section, line); err != nil {
				return err
			}
			current = section
			continue
		}

		if current == "" {
			if strings.TrimSpace(text) == "" {
				continue
			}
			return &LineError{Line: line, Err: ErrLineOutsideSection}
		}
		c.sections[current] = append(c.sections[current], line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read datafile %s: %w", name, err)
	}
	return nil
}

func (c *EvaluationContext) openSection(section string, line RawLine) error {
	if section == "" {
		return &LineError{Line: line, Err: ErrEmptySectionName}
	}
	if _, seen := c.sections[section]; seen {
		if !KindOf(section).Reopenable() {
			return lineErrorf(line, ErrSectionRedefined, "%s", section)
		}
		return nil
	}
	c.sections[section] = nil
	c.order = append(c.order, section)
	return nil
}

// Sections returns the loaded section names in discovery order.
func (c *EvaluationContext) Sections() []string {
	return append([]string(nil), c.order...)
}

// Raw returns the raw lines of a loaded section.
func (c *EvaluationContext) Raw(section string) ([]RawLine, bool) {
	lines, ok := c.sections[section]
	return lines, ok
}
