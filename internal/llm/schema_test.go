package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplySchema(t *testing.T) {
	m := replySchemaMap()
	require.NotNil(t, m)

	assert.Equal(t, "object", m["type"])
	assert.Equal(t, false, m["additionalProperties"])
	assert.ElementsMatch(t, []any{"reply", "mood"}, m["required"])
	assert.NotContains(t, m, "$schema")
	assert.NotContains(t, m, "$ref")

	props := m["properties"].(map[string]any)
	mood := props["mood"].(map[string]any)
	assert.ElementsMatch(t, []any{"happy", "sad", "angry", "neutral"}, mood["enum"])
}

func TestReplySchemaIsShared(t *testing.T) {
	assert.Same(t, ReplySchema(), ReplySchema())

	b, err := json.Marshal(ReplySchema())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"reply"`)
}
