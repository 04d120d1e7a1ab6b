package values

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewResourceID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"fullname", "t3_abc", "t3_abc", false},
		{"plain id", "abc123", "abc123", false},
		{"trims whitespace", "  t1_xyz  ", "t1_xyz", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"inner space", "t3_a bc", "", true},
		{"control char", "t3_\x00abc", "", true},
		{"too long", strings.Repeat("a", MaxResourceIDLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewResourceID(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidID))
				var idErr *InvalidIDError
				assert.True(t, errors.As(err, &idErr))
				assert.Equal(t, tt.input, idErr.ID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, id.String())
			}
		})
	}
}

func Test_MustNewResourceID_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewResourceID("")
	})
}

func Test_ResourceID_IsEmpty(t *testing.T) {
	assert.True(t, ResourceID{}.IsEmpty())
	assert.False(t, MustNewResourceID("t3_abc").IsEmpty())
}

func Test_ResourceID_Equals(t *testing.T) {
	a := MustNewResourceID("t3_abc")
	b := MustNewResourceID("t3_def")
	c := MustNewResourceID(" t3_abc ")

	assert.False(t, a.Equals(b))
	assert.True(t, a.Equals(c))
}

func Test_ResourceID_Kind(t *testing.T) {
	tests := []struct {
		id   string
		want Kind
	}{
		{"t1_c0mm3nt", KindComment},
		{"t2_user", KindAccount},
		{"t3_abc", KindLink},
		{"T3_abc", KindLink},
		{"t4_msg", KindMessage},
		{"t5_2qh1i", KindSubreddit},
		{"t6_award", KindAward},
		{"t9_nope", KindUnknown},
		{"noprefix", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, MustNewResourceID(tt.id).Kind())
		})
	}
}

func Test_Kind_Prefix(t *testing.T) {
	assert.Equal(t, "t3", KindLink.Prefix())
	assert.Equal(t, "t1", KindComment.Prefix())
	assert.Equal(t, "", KindUnknown.Prefix())
	assert.True(t, KindSubreddit.IsKnown())
	assert.False(t, Kind("custom").IsKnown())
}

func Test_ResourceID_JSON(t *testing.T) {
	original := MustNewResourceID("t3_abc")

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"t3_abc"`, string(data))

	var decoded ResourceID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equals(decoded))

	assert.Error(t, json.Unmarshal([]byte(`""`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`42`), &decoded))
}
