package capability_test

import (
	"testing"
	"time"

	"github.com/reglet-dev/capmodel/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestCheckGildings(t *testing.T) {
	t.Parallel()

	breakdown := capability.MustNewGildings(
		capability.TierCount{Tier: "gold", Count: 3},
		capability.TierCount{Tier: "silver", Count: 2},
	)

	t.Run("consistent views", func(t *testing.T) {
		report := capability.CheckGildings(map[string]capability.GildableView{
			"t3_a": capability.MustNewGildableView(true, 5, breakdown),
			"t3_b": capability.MustNewGildableView(true, 0, capability.Gildings{}),
		})
		assert.True(t, report.OK())
		assert.Equal(t, capability.SeverityNone, report.Level)
	})

	t.Run("mismatch is flagged", func(t *testing.T) {
		report := capability.CheckGildings(map[string]capability.GildableView{
			"t3_abc": capability.MustNewGildableView(false, 9, breakdown),
		})
		require.Len(t, report.Findings, 1)
		f := report.Findings[0]
		assert.Equal(t, "t3_abc", f.Subject)
		assert.Equal(t, capability.SeverityMedium, f.Level)
		assert.Contains(t, f.Detail, "gilded=9 sum=5")
		assert.Equal(t, capability.SeverityMedium, report.Level)
	})

	t.Run("legacy count without breakdown", func(t *testing.T) {
		report := capability.CheckGildings(map[string]capability.GildableView{
			"t1_old": capability.MustNewGildableView(false, 3, capability.Gildings{}),
		})
		require.Len(t, report.Findings, 1)
		assert.Equal(t, capability.SeverityLow, report.Level)
	})

	t.Run("breakdown beyond cached range", func(t *testing.T) {
		huge := capability.MustNewGildings(capability.TierCount{Tier: "gold", Count: capability.MaxGildCount + 1})
		report := capability.CheckGildings(map[string]capability.GildableView{
			"t3_z": capability.MustNewGildableView(false, capability.MaxGildCount, huge),
			"t3_a": capability.MustNewGildableView(false, 1, breakdown),
		})
		require.Len(t, report.Findings, 2)
		assert.Equal(t, "t3_a", report.Findings[0].Subject)
		assert.Equal(t, capability.SeverityHigh, report.Level)
		assert.Equal(t, "high", report.Level.String())
	})
}
