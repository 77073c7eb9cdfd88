package llm

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
)

// StructuredReply is the JSON object the model is asked to return.
type StructuredReply struct {
	Reply string `json:"reply" jsonschema:"description=Empathetic reply shown to the user"`
	Mood  string `json:"mood" jsonschema:"enum=happy,enum=sad,enum=angry,enum=neutral,description=Mood detected in the user's message"`
}

// ReplySchemaName names the schema in provider response_format payloads.
const ReplySchemaName = "mood_reply"

var (
	replySchemaOnce sync.Once
	replySchema     *jsonschema.Schema
)

// ReplySchema returns the JSON schema for StructuredReply. The schema is
// inlined, closed to additional properties and marks both fields required.
func ReplySchema() *jsonschema.Schema {
	replySchemaOnce.Do(func() {
		r := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
			Anonymous:                 true,
		}
		replySchema = r.Reflect(&StructuredReply{})
		replySchema.Version = ""
	})
	return replySchema
}

// replySchemaMap renders ReplySchema as a generic map for hand-built
// request bodies.
func replySchemaMap() map[string]any {
	b, err := ReplySchema().MarshalJSON()
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}
