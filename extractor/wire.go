package extractor

// GildableWire is the wire shape of the gildable keys of a thing.
type GildableWire struct {
	Gildings     map[string]int `json:"gildings,omitempty" jsonschema:"description=Gift count per award id"`
	GildingOrder []string       `json:"gilding_order,omitempty" jsonschema:"description=Award ids in breakdown order"`
	Gilded       int            `json:"gilded" jsonschema:"minimum=0,maximum=32767,description=Cached total gild count"`
	CanGild      bool           `json:"can_gild" jsonschema:"description=Whether the requesting user may gild the thing"`
}

// VotableWire is the wire shape of the votable keys of a thing.
type VotableWire struct {
	Likes *bool `json:"likes" jsonschema:"oneof_type=boolean;null"`
	Score int   `json:"score"`
	Ups   int   `json:"ups" jsonschema:"minimum=0"`
	Downs int   `json:"downs" jsonschema:"minimum=0"`
}

// EditableSchema is the JSON schema of the edited key, which is either
// false or a unix timestamp in seconds. It cannot be reflected from a struct.
const EditableSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "edited": {
      "oneOf": [
        {"type": "boolean"},
        {"type": "number", "minimum": 0}
      ]
    }
  }
}`
