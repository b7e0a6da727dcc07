package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle_ExactInstructionRequestsTest(t *testing.T) {
	assert.Equal(t, "test", Toggle("Instruction", false))
}

func TestToggle_AnythingElseRequestsInstruction(t *testing.T) {
	for _, displayed := range []string{"test", "instruction", "", "Foo", "INSTRUCTION", " Instruction"} {
		assert.Equal(t, "instruction", Toggle(displayed, false), "displayed %q", displayed)
	}
}

func TestToggle_NormalizedIgnoresCase(t *testing.T) {
	assert.Equal(t, "test", Toggle("instruction", true))
	assert.Equal(t, "test", Toggle(" INSTRUCTION ", true))
	assert.Equal(t, "instruction", Toggle("Test", true))
	assert.Equal(t, "instruction", Toggle("Foo", true))
}

func TestParse(t *testing.T) {
	tests := []struct {
		text      string
		normalize bool
		want      Mode
	}{
		{"Instruction", false, Instruction},
		{"test", false, Test},
		{"instruction", false, Unknown},
		{"Test", false, Unknown},
		{"", false, Unknown},
		{"instruction", true, Instruction},
		{"Test", true, Test},
		{"bogus", true, Unknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.text, tt.normalize), "Parse(%q, %v)", tt.text, tt.normalize)
	}
}

func TestModeForms(t *testing.T) {
	assert.Equal(t, "Instruction", Instruction.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "", Unknown.String())

	assert.Equal(t, "instruction", Instruction.Wire())
	assert.Equal(t, "test", Test.Wire())
	assert.Equal(t, "instruction", Unknown.Wire())

	assert.Equal(t, Test, Instruction.Next())
	assert.Equal(t, Instruction, Test.Next())
	assert.Equal(t, Instruction, Unknown.Next())
}
