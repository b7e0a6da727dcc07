// Package mode defines the two-valued mode shown by the binder and requested
// from the server.
//
// The display form and the wire form disagree on casing: the server renders
// "Instruction" but the client requests "instruction". Parse and Toggle keep
// that behaviour by default so the binder stays compatible with existing
// servers; passing normalize=true compares case-insensitively instead.
package mode

import "strings"

type Mode int

const (
	Unknown Mode = iota
	Instruction
	Test
)

const (
	displayInstruction = "Instruction"
	displayTest        = "test"

	WireInstruction = "instruction"
	WireTest        = "test"
)

// Parse maps displayed text onto a Mode. Without normalize only the exact
// display forms are recognised.
func Parse(text string, normalize bool) Mode {
	if normalize {
		switch strings.ToLower(strings.TrimSpace(text)) {
		case WireInstruction:
			return Instruction
		case WireTest:
			return Test
		}
		return Unknown
	}

	switch text {
	case displayInstruction:
		return Instruction
	case displayTest:
		return Test
	}
	return Unknown
}

// Next is the toggle target. Instruction is the only privileged value;
// anything else falls back to Instruction.
func (m Mode) Next() Mode {
	if m == Instruction {
		return Test
	}
	return Instruction
}

// Wire returns the lower-case form sent to the server.
func (m Mode) Wire() string {
	if m == Test {
		return WireTest
	}
	return WireInstruction
}

func (m Mode) String() string {
	switch m {
	case Instruction:
		return displayInstruction
	case Test:
		return displayTest
	}
	return ""
}

// Toggle returns the wire value to request given the text currently displayed.
func Toggle(displayed string, normalize bool) string {
	return Parse(displayed, normalize).Next().Wire()
}
