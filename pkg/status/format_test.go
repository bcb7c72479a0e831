package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
	}{
		{name: "zero_progress", current: 0, total: 10, expected: "⏳ Progress: 0/10 (0%)"},
		{name: "half_progress", current: 5, total: 10, expected: "⏳ Progress: 5/10 (50%)"},
		{name: "complete", current: 10, total: 10, expected: "✅ Progress: 10/10 (100%)"},
		{name: "zero_total", current: 0, total: 0, expected: "✅ Progress: 0/0 (0%)"},
		{name: "current_exceeds_total", current: 15, total: 10, expected: "✅ Progress: 15/10 (100%)"},
		{name: "negative_values", current: -1, total: -1, expected: "✅ Progress: 0/0 (0%)"},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.FormatProgress(tt.current, tt.total))
		})
	}
}

// 🧪 TestErrorFormatting tests error message formatting
func TestErrorFormatting(t *testing.T) {
	formatter := NewDefaultFileFormatter()

	assert.Equal(t, "❌ Error: assert.AnError general error for testing", formatter.FormatError(assert.AnError))
	assert.Equal(t, "", formatter.FormatError(nil))
}

func TestFormatSummary(t *testing.T) {
	got := NewDefaultFileFormatter().FormatSummary(Stats{Total: 4, Processed: 4, Succeeded: 2, Failed: 1, Skipped: 1})
	assert.Equal(t, "📊 4 total, 2 succeeded, 1 failed, 1 skipped", got)
}
