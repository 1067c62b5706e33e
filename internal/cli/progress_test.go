package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(3, &out, "Scoring datasets...")

	p.Step()
	p.Step()
	p.Step()
	p.Finish()

	rendered := out.String()
	assert.Contains(t, rendered, "Scoring datasets...")
	assert.Contains(t, rendered, "3/3")
}

func TestProgress_NilIsNoop(t *testing.T) {
	var p *Progress
	assert.NotPanics(t, func() {
		p.Step()
		p.Finish()
	})
}

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		icon   string
	}{
		{name: "success", format: FormatSuccess, icon: SuccessIcon},
		{name: "error", format: FormatError, icon: ErrorIcon},
		{name: "warning", format: FormatWarning, icon: WarningIcon},
		{name: "info", format: FormatInfo, icon: InfoIcon},
		{name: "title", format: FormatTitle, icon: ChartIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.format("hello")
			assert.Contains(t, got, tt.icon)
			assert.Contains(t, got, "hello")
		})
	}
}

func TestRenderBox(t *testing.T) {
	got := RenderBox("Title", "body")
	assert.Contains(t, got, "Title")
	assert.Contains(t, got, "body")
}
