package mood

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelString(t *testing.T) {
	assert.Equal(t, "POSITIVE", Positive.String())
	assert.Equal(t, "NEGATIVE", Negative.String())
	assert.Equal(t, "NEUTRAL", Neutral.String())
	assert.Equal(t, "Label(9)", Label(9).String())
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"POSITIVE", Positive},
		{"negative", Negative},
		{" Neutral ", Neutral},
		{"happy", Positive},
		{"sad", Negative},
		{"angry", Negative},
		{"neutral", Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLabel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLabel("ecstatic-ish")
	assert.Error(t, err)
}

func TestLabelJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Label{"mood": Negative})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"NEGATIVE"}`, string(data))

	var decoded struct {
		Mood Label `json:"mood"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mood":"happy"}`), &decoded))
	assert.Equal(t, Positive, decoded.Mood)

	_, err = json.Marshal(Label(7))
	assert.Error(t, err)
}
