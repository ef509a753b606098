package ontology

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Critique{})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"overallScore":"N/A"`)

	raw, err = json.Marshal(Critique{OverallScore: ScoreOf(7.5)})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"overallScore":7.5`)
}

func TestScore_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Score
	}{
		{`8`, ScoreOf(8)},
		{`"6.5"`, ScoreOf(6.5)},
		{`"N/A"`, Score{}},
		{`null`, Score{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s Score
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.Equal(t, tt.want, s)
		})
	}

	var s Score
	assert.Error(t, json.Unmarshal([]byte(`"excellent"`), &s))
}

func TestCritique_DecodesModelOutput(t *testing.T) {
	var c Critique
	err := json.Unmarshal([]byte(`{
		"overallScore": 7,
		"dimensions": {"completeness": 6, "specificity": 8, "utility": 7, "structure": 7},
		"strengths": ["clear roles"],
		"riskAssessment": {"dataQuality": "high", "integrationComplexity": "simple"}
	}`), &c)
	require.NoError(t, err)
	assert.Equal(t, "7", c.OverallScore.String())
	assert.Equal(t, 8.0, c.Dimensions.Specificity)
	require.NotNil(t, c.RiskAssessment)
	assert.Equal(t, "high", c.RiskAssessment.DataQuality)
	assert.False(t, c.Degraded)
}
