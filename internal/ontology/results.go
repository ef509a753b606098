package ontology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValidationDimensions holds one score in [0,1] per validation dimension.
type ValidationDimensions struct {
	SchemaCompliance     float64 `json:"schemaCompliance"`
	DuplicateDetection   float64 `json:"duplicateDetection"`
	ReferentialIntegrity float64 `json:"referentialIntegrity"`
	SemanticConsistency  float64 `json:"semanticConsistency"`
}

// ValidationResult is the validator's verdict on a candidate set. Reason is
// set only when IsValid is false, except for the fixed pass message.
type ValidationResult struct {
	IsValid    bool                  `json:"isValid"`
	Reason     string                `json:"reason,omitempty"`
	Dimensions *ValidationDimensions `json:"dimensions,omitempty"`
}

// Score is a critique score. The zero value is "not scored" and renders as
// "N/A".
type Score struct {
	Value float64
	Valid bool
}

// ScoreOf returns a valid score.
func ScoreOf(v float64) Score {
	return Score{Value: v, Valid: true}
}

func (s Score) String() string {
	if !s.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a number, a numeric string, "N/A" or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Score{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str == "" || str == "N/A" {
			*s = Score{}
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("score %q is not a number", str)
		}
		*s = ScoreOf(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ScoreOf(v)
	return nil
}

// CritiqueDimensions are the critic's 0-10 sub-scores.
type CritiqueDimensions struct {
	Completeness float64 `json:"completeness"`
	Specificity  float64 `json:"specificity"`
	Utility      float64 `json:"utility"`
	Structure    float64 `json:"structure"`
}

// RiskAssessment is the critic's qualitative view of an integration.
type RiskAssessment struct {
	DataQuality           string `json:"dataQuality,omitempty"`
	IntegrationComplexity string `json:"integrationComplexity,omitempty"`
}

// Critique is the advisory quality assessment of a candidate set.
type Critique struct {
	OverallScore    Score              `json:"overallScore"`
	Dimensions      CritiqueDimensions `json:"dimensions"`
	Strengths       []string           `json:"strengths,omitempty"`
	Improvements    []string           `json:"improvements,omitempty"`
	MissingElements []string           `json:"missingElements,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	RiskAssessment  *RiskAssessment    `json:"riskAssessment,omitempty"`

	// Degraded is set when the critique is the fixed fallback.
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
	Note     string `json:"note,omitempty"`
}
