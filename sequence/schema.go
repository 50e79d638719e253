package sequence

import (
	"fmt"

	broadcast "github.com/broadcastkit/engine"
	"github.com/xeipuuv/gojsonschema"
)

// sequenceSchema is the shape every persisted ScriptSequence must match
// before --resume trusts it. Guards against loading a record from an
// incompatible future version or a hand-edited file missing required
// fields, rather than panicking deep inside resume logic.
const sequenceSchema = `{
  "type": "object",
  "required": ["version", "chain_id", "transactions"],
  "properties": {
    "version": {"type": "integer", "minimum": 1, "maximum": %d},
    "chain_id": {"type": "integer", "minimum": 1},
    "libraries": {"type": "array", "items": {"type": "string"}},
    "pending": {"type": "array", "items": {"type": "string"}},
    "transactions": {"type": "array"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(fmt.Sprintf(sequenceSchema, broadcast.SequenceRecordVersion))

// validateSequenceSchema checks raw JSON bytes against sequenceSchema,
// returning an error naming every validation failure found.
func validateSequenceSchema(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var msg string
	for i, e := range result.Errors() {
		if i > 0 {
			msg += "; "
		}
		msg += e.String()
	}
	return fmt.Errorf("invalid sequence record: %s", msg)
}
