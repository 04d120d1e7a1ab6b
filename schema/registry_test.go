package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg, err := schema.DefaultRegistry()
	require.NoError(t, err)
	assert.Equal(t, []capability.Tag{capability.Editable, capability.Gildable, capability.Votable}, reg.List())

	raw, ok := reg.GetSchema(capability.Gildable)
	require.True(t, ok)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	props, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok, "schema: %s", raw)
	assert.Contains(t, props, "can_gild")
	assert.Contains(t, props, "gilded")
	assert.Contains(t, props, "gildings")
	assert.Equal(t, false, doc["additionalProperties"])
	assert.NotContains(t, doc, "required")
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	type sample struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		model   interface{}
		wantErr bool
	}{
		{"struct", sample{}, false},
		{"struct pointer", &sample{}, false},
		{"string", `{"type":"object"}`, false},
		{"bytes", []byte(`{"type":"object"}`), false},
		{"map", map[string]interface{}{"type": "object"}, false},
		{"unsupported", 42, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := schema.NewRegistry()
			err := reg.Register("custom", tt.model)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			s, ok := reg.GetSchema("custom")
			require.True(t, ok)
			assert.True(t, json.Valid([]byte(s)))
		})
	}
}

func TestRegistry_RegisterDuplicateAndEmpty(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(capability.Gildable, `{}`))
	assert.Error(t, reg.Register(capability.Gildable, `{}`))
	assert.Error(t, reg.Register("", `{}`))

	_, ok := reg.GetSchema(capability.Votable)
	assert.False(t, ok)
}

func TestRegistry_NonStrictAllowsExtraKeys(t *testing.T) {
	t.Parallel()

	reg, err := schema.DefaultRegistry(schema.WithStrictMode(false))
	require.NoError(t, err)

	raw, ok := reg.GetSchema(capability.Votable)
	require.True(t, ok)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.NotEqual(t, false, doc["additionalProperties"])
}
