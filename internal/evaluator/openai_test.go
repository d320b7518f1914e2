package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFirstJSON(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare object", `{"score": 8}`, `{"score": 8}`, false},
		{"fenced", "Here you go:\n```json\n{\"score\": 8}\n```", `{"score": 8}`, false},
		{"prose around", `Sure! {"a": {"b": 1}} Hope that helps.`, `{"a": {"b": 1}}`, false},
		{"nested braces", `{"criteria": {"Clarity": {"rating": 5}}}`, `{"criteria": {"Clarity": {"rating": 5}}}`, false},
		{"no object", "I cannot answer that.", "", true},
		{"unbalanced", `{"score": 8`, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractFirstJSON(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAPIResult_Decode(t *testing.T) {
	raw := `{
		"criteria": {
			"Clarity": {"rating": 4, "explanation": "mostly clear"},
			"Specificity": {"rating": 5, "explanation": "very specific"}
		},
		"score": 8.5,
		"suggestions": ["tighten the intro"],
		"improvedPrompt": "better version",
		"topics": ["go", "testing"],
		"entities": ["OpenAI"],
		"styles": ["specifies_role"]
	}`

	var parsed apiResult
	assert.NoError(t, json.Unmarshal([]byte(raw), &parsed))
	assert.Equal(t, 4, parsed.Criteria["Clarity"].Rating)
	assert.InDelta(t, 8.5, parsed.Score, 1e-9)
	assert.Equal(t, []string{"tighten the intro"}, parsed.Suggestions)
}
