// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"errors"
	"testing"
)

func TestCondStack(t *testing.T) {
	t.Parallel()

	var st condStack
	line := RawLine{File: "x.data", Number: 1}

	if !st.live() {
		t.Fatal("empty stack should be live")
	}

	st.push(line)
	if st.live() {
		t.Error("pushed level should not be live before execute")
	}
	if err := st.execute(line); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !st.live() {
		t.Error("executed level should be live")
	}
	if err := st.execute(line); !errors.Is(err, ErrConditionalState) {
		t.Errorf("second execute() error = %v, want ErrConditionalState", err)
	}

	if err := st.next(line); err != nil {
		t.Fatal(err)
	}
	if st.live() || st.pending() {
		t.Error("closed branch should not be live or pending")
	}

	if err := st.check("S"); !errors.Is(err, ErrOpenConditional) {
		t.Errorf("check() error = %v, want ErrOpenConditional", err)
	}
	if err := st.pop(line); err != nil {
		t.Fatal(err)
	}
	if err := st.check("S"); err != nil {
		t.Errorf("check() on empty stack error = %v", err)
	}
	if err := st.pop(line); !errors.Is(err, ErrUnbalancedConditional) {
		t.Errorf("pop() on empty stack error = %v, want ErrUnbalancedConditional", err)
	}
}
