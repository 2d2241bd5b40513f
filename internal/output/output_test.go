package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_StatusIcons(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Success("index built")
	w.Warning("pattern matched nothing")
	w.Errorf("failed after %d pages", 3)

	out := buf.String()
	assert.Contains(t, out, "✅ index built")
	assert.Contains(t, out, "⚠️  pattern matched nothing")
	assert.Contains(t, out, "❌ failed after 3 pages")
}

func TestWriter_StatusWithoutIconIndents(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Status("", "detail line")
	assert.Equal(t, "   detail line\n", buf.String())
}

func TestWriter_LineAndNewline(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Linef("[%d/%d] slide", 1, 4)
	w.Newline()
	assert.Equal(t, "[1/4] slide\n\n", buf.String())
}
