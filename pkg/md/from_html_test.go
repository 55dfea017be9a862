package md

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "basic paragraph",
			input:    "<p>Hello world</p>",
			expected: "Hello world",
		},
		{
			name:     "multiple paragraphs",
			input:    "<p>First paragraph.</p><p>Second paragraph.</p>",
			expected: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:     "heading",
			input:    "<h2>Methods</h2>",
			expected: "## Methods",
		},
		{
			name:     "bold and italic",
			input:    "<p>This is <strong>bold</strong> and <em>italic</em></p>",
			expected: "This is **bold** and *italic*",
		},
		{
			name:     "unordered list",
			input:    "<ul><li>one</li><li>two</li></ul>",
			expected: "- one\n- two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHTML(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strings.TrimRight(got, "\n"))
		})
	}
}

func TestFromHTML_StripsOfficeMarkup(t *testing.T) {
	input := `<!--[if gte mso 9]><xml>junk</xml><![endif]-->` +
		`<style>p { margin: 0 }</style>` +
		`<p>Real content<o:p></o:p></p>`

	got, err := FromHTML(input)
	require.NoError(t, err)
	assert.Equal(t, "Real content", strings.TrimRight(got, "\n"))
	assert.NotContains(t, got, "junk")
	assert.NotContains(t, got, "margin")
}

func TestFromHTML_UnwrapsDocsGUIDBold(t *testing.T) {
	input := `<b id="docs-internal-guid-abc123" style="font-weight:normal;"><p>Exported text</p></b>`

	got, err := FromHTML(input)
	require.NoError(t, err)
	assert.Equal(t, "Exported text", strings.TrimRight(got, "\n"))
	assert.NotContains(t, got, "**")
}
