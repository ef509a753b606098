package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"entities\": []}\n```", `{"entities": []}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"uppercase tag", "```JSON\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", "  {\"a\": 1}\n", `{"a": 1}`},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestExtractJSON_MarkdownJsonBlock(t *testing.T) {
	response := "Here is the extraction:\n\n```json\n" +
		`{"entities": [{"id": "dept_sales", "label": "Sales", "type": "Department"}]}` +
		"\n```\n\nLet me know if you need more."

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Contains(t, result, `"dept_sales"`)
}

func TestExtractJSON_SkipsOtherLanguages(t *testing.T) {
	response := "```cypher\nMATCH (n) RETURN n\n```\n\n```json\n{\"isValid\": true}\n```"

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"isValid": true}`, result)
}

func TestExtractJSON_RawObjectWithSurroundingText(t *testing.T) {
	response := `Verdict follows. {"isValid": false, "reason": "Role cannot contain {Department}", "score": 0.2} Done.`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"isValid": false, "reason": "Role cannot contain {Department}", "score": 0.2}`, result)
}

func TestExtractJSON_EscapedQuotes(t *testing.T) {
	response := `{"label": "The \"Ops\" team", "type": "Department"}`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, result)
}

func TestExtractJSON_RawArray(t *testing.T) {
	response := `[{"id": "a"}, {"id": "b"}]`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, result)
}

func TestExtractJSON_Failures(t *testing.T) {
	for name, response := range map[string]string{
		"plain text": "I could not find any entities.",
		"truncated":  `{"entities": [{"id": "x"`,
		"bad fence":  "```json\n{entities: nope\n```",
		"empty":      "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractJSON(response)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "no valid JSON")
		})
	}
}

func TestExtractJSON_SkipsUnbalancedPrefix(t *testing.T) {
	response := `Note: sets use {braces. {"isValid": true, "score": 0.9}`

	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"isValid": true, "score": 0.9}`, result)
}

func TestExtractJSON_ErrorIsMalformedResponse(t *testing.T) {
	_, err := ExtractJSON("no json here")
	assert.True(t, types.HasCode(err, ErrMalformedResponse))
}

func BenchmarkExtractJSON_Markdown(b *testing.B) {
	response := "Here's the data:\n```json\n{\"entities\": [{\"id\": \"x\"}], \"relationships\": []}\n```\nEnd"
	for i := 0; i < b.N; i++ {
		_, _ = ExtractJSON(response)
	}
}
