package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderIncidentEmail(t *testing.T) {
	out := RenderIncidentEmail("New <incident>", "line one\nline & two")

	assert.Contains(t, out, "<title>New &lt;incident&gt;</title>")
	assert.Contains(t, out, "line one<br>line &amp; two")
	assert.False(t, strings.Contains(out, "<incident>"))
}
