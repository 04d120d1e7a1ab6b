package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/reglet-dev/capmodel/model/entities"
	"github.com/reglet-dev/capmodel/model/values"
	"github.com/reglet-dev/capmodel/snapshot/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(t *testing.T) []*entities.Record {
	t.Helper()
	link, err := entities.NewRecord(
		values.MustNewResourceID("t3_abc"),
		"",
		map[string]any{"title": "hello", "tags": []any{"a", "b"}, "over_18": false},
		map[capability.Tag]capability.View{
			capability.Gildable: capability.MustNewGildableView(false, 9, capability.MustNewGildings(
				capability.TierCount{Tier: "gold", Count: 3},
				capability.TierCount{Tier: "silver", Count: 2},
			)),
			capability.Editable: capability.NewEditableView(true, time.Unix(1700000000, 250000000)),
		},
	)
	require.NoError(t, err)

	comment, err := entities.NewRecord(values.MustNewResourceID("t1_c"), "", map[string]any{"body": "hi"}, nil)
	require.NoError(t, err)
	return []*entities.Record{link, comment}
}

func TestRepository_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "snapshot.yaml")
	repo := filesystem.NewRepository(path, filesystem.WithFilePermissions(0o640))
	ctx := context.Background()

	want := records(t)
	require.NoError(t, repo.Save(ctx, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "format_version: 1.0.0")

	snaps, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, len(want))

	for i, s := range snaps {
		got, err := s.ToRecord()
		require.NoError(t, err)
		assert.True(t, want[i].Equal(got), "record %s: %+v", s.ID, got.Fields())
	}

	gv, ok := capability.AsType[capability.GildableView](snaps[0].Capabilities[capability.Gildable])
	require.True(t, ok)
	assert.Equal(t, int16(9), gv.GildCount())
	assert.Equal(t, 5, gv.EffectiveCount())
	assert.Equal(t, []string{"gold", "silver"}, gv.Gildings().Tiers())
}

func TestRepository_LoadMissingFile(t *testing.T) {
	t.Parallel()

	repo := filesystem.NewRepository(filepath.Join(t.TempDir(), "absent.yaml"))
	snaps, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestRepository_SaveReplaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	repo := filesystem.NewRepository(path)
	ctx := context.Background()

	all := records(t)
	require.NoError(t, repo.Save(ctx, all))
	require.NoError(t, repo.Save(ctx, all[1:]))

	snaps, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "t1_c", snaps[0].ID)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestRepository_FormatVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"compatible minor", "format_version: 1.4.0\nrecords: []\n", false},
		{"future major", "format_version: 2.0.0\nrecords: []\n", true},
		{"missing", "records: []\n", true},
		{"garbage", "format_version: latest\nrecords: []\n", true},
		{"not yaml", "format_version: [\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "snapshot.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := filesystem.NewRepository(path).Load(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := filesystem.NewRepository(filepath.Join(t.TempDir(), "snapshot.yaml"))
	assert.ErrorIs(t, repo.Save(ctx, nil), context.Canceled)
	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
