// SPDX-License-Identifier: MPL-2.0

package datafile

import "fmt"

// RawLine is one line of a datafile as it was read, with its origin.
type RawLine struct {
	Text   string
	File   string
	Number int
}

// Pos returns the "file:line" position of the line.
func (l RawLine) Pos() string {
	return fmt.Sprintf("%s:%d", l.File, l.Number)
}
