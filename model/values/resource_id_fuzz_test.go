package values_test

import (
	"errors"
	"testing"

	"github.com/reglet-dev/capmodel/model/values"
)

func FuzzNewResourceID(f *testing.F) {
	f.Add("t3_abc")
	f.Add("  t1_xyz ")
	f.Add("")
	f.Add("t3_\x00")

	f.Fuzz(func(t *testing.T, raw string) {
		id, err := values.NewResourceID(raw)
		if err != nil {
			if !errors.Is(err, values.ErrInvalidID) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}
		if id.IsEmpty() {
			t.Fatal("accepted id must not be empty")
		}
		// Parsing is idempotent on accepted ids.
		again, err := values.NewResourceID(id.String())
		if err != nil || !again.Equals(id) {
			t.Fatalf("re-parse of %q failed: %v", id, err)
		}
		_ = id.Kind()
	})
}
