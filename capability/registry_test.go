package capability_test

import (
	"errors"
	"testing"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flagExtractor maps a single boolean wire key onto an EditableView.
type flagExtractor struct {
	err error
}

func (e *flagExtractor) Tag() capability.Tag { return capability.Editable }
func (e *flagExtractor) Keys() []string      { return []string{"flag"} }

func (e *flagExtractor) Extract(raw map[string]interface{}) (capability.View, bool, error) {
	if e.err != nil {
		return nil, false, e.err
	}
	v, ok := raw["flag"].(bool)
	if !ok {
		return nil, false, nil
	}
	return capability.NewEditableView(v, testTime), true, nil
}

func (e *flagExtractor) Flatten(view capability.View) (map[string]interface{}, error) {
	ev, ok := capability.AsType[capability.EditableView](view)
	if !ok {
		return nil, errors.New("not editable")
	}
	return map[string]interface{}{"flag": ev.Edited()}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	r := capability.NewRegistry()
	_, ok := r.Get(capability.Editable)
	assert.False(t, ok)

	r.Register(&flagExtractor{})
	got, ok := r.Get(capability.Editable)
	require.True(t, ok)
	assert.Equal(t, capability.Editable, got.Tag())

	assert.Equal(t, []capability.Tag{capability.Editable}, r.Tags())
	assert.Contains(t, r.ConsumedKeys(), "flag")
}

func TestRegistry_ExtractAll(t *testing.T) {
	t.Parallel()

	r := capability.NewRegistry()
	r.Register(&flagExtractor{})

	views, err := r.ExtractAll(map[string]interface{}{"flag": true, "title": "x"})
	require.NoError(t, err)
	require.Contains(t, views, capability.Editable)
	assert.True(t, views[capability.Editable].(capability.EditableView).Edited())

	views, err = r.ExtractAll(map[string]interface{}{"title": "x"})
	require.NoError(t, err)
	assert.Empty(t, views)

	broken := capability.NewRegistry()
	broken.Register(&flagExtractor{err: errors.New("boom")})
	_, err = broken.ExtractAll(map[string]interface{}{"flag": true})
	assert.ErrorContains(t, err, "extracting editable")
}

func TestRegistry_FlattenAll(t *testing.T) {
	t.Parallel()

	r := capability.NewRegistry()
	r.Register(&flagExtractor{})

	out, err := r.FlattenAll(map[capability.Tag]capability.View{
		capability.Editable: capability.NewEditableView(true, testTime),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"flag": true}, out[capability.Editable])

	_, err = r.FlattenAll(map[capability.Tag]capability.View{
		capability.Gildable: capability.MustNewGildableView(true, 0, capability.Gildings{}),
	})
	assert.ErrorContains(t, err, "no extractor registered")
}
