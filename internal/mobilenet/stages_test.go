package mobilenet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStages(t *testing.T) {
	stages := DefaultStages()

	require.Len(t, stages, 7)
	assert.Equal(t, StageSpec{Expansion: 1, Channels: 16, Repeats: 1, Stride: 1}, stages[0])
	assert.Equal(t, StageSpec{Expansion: 6, Channels: 320, Repeats: 1, Stride: 1}, stages[6])

	repeats := 0
	for _, s := range stages {
		repeats += s.Repeats
	}
	assert.Equal(t, 17, repeats)

	stages[0].Channels = 999
	assert.Equal(t, 16, DefaultStages()[0].Channels, "each call returns a fresh table")
}

// TestPlan_Default checks channel propagation through the standard table.
func TestPlan_Default(t *testing.T) {
	plan, err := DefaultConfig().Plan()
	require.NoError(t, err)

	assert.Equal(t, 3, plan.InputChannels)
	assert.Equal(t, 32, plan.StemChannels)
	assert.Equal(t, 1280, plan.HeadChannels)
	assert.Equal(t, 1000, plan.NumClasses)
	assert.Equal(t, 17, plan.NumBlocks())
	assert.Equal(t, 10, plan.NumShortcuts())
	assert.Equal(t, 320, plan.LastChannels())
	assert.Equal(t, 32, plan.OutputStride())

	type io struct{ in, out, stride int }
	expected := []io{
		{32, 16, 1},
		{16, 24, 2}, {24, 24, 1},
		{24, 32, 2}, {32, 32, 1}, {32, 32, 1},
		{32, 64, 2}, {64, 64, 1}, {64, 64, 1}, {64, 64, 1},
		{64, 96, 1}, {96, 96, 1}, {96, 96, 1},
		{96, 160, 2}, {160, 160, 1}, {160, 160, 1},
		{160, 320, 1},
	}
	blocks := plan.Blocks()
	require.Len(t, blocks, len(expected))
	for i, b := range blocks {
		assert.Equal(t, expected[i], io{b.InChannels, b.OutChannels, b.Stride}, "block %d", i)
	}
}

// TestPlan_Propagation checks every block's input equals the previous output
// and each stage's first block starts from the previous stage's width.
func TestPlan_Propagation(t *testing.T) {
	for _, width := range []float64{0.35, 0.5, 0.75, 1.0, 1.3, 1.4} {
		cfg := DefaultConfig()
		cfg.WidthMultiplier = width
		plan, err := cfg.Plan()
		require.NoError(t, err)

		prev := plan.StemChannels
		for si, stage := range plan.Stages {
			require.Len(t, stage.Blocks, stage.Spec.Repeats)
			assert.Equal(t, RoundChannels(float64(stage.Spec.Channels)*width, 8, 0), stage.OutChannels)
			for bi, b := range stage.Blocks {
				assert.Equal(t, prev, b.InChannels, "width %g stage %d block %d", width, si, bi)
				assert.Equal(t, stage.OutChannels, b.OutChannels)
				assert.Equal(t, stage.Spec.Expansion, b.ExpansionFactor)
				if bi == 0 {
					assert.Equal(t, stage.Spec.Stride, b.Stride)
				} else {
					assert.Equal(t, 1, b.Stride)
				}
				prev = b.OutChannels
			}
		}
		assert.Equal(t, prev, plan.LastChannels())
	}
}

func TestPlan_WidthMonotonic(t *testing.T) {
	prevStem, prevHead := 0, 0
	for _, width := range []float64{0.5, 1.0, 1.4} {
		cfg := DefaultConfig()
		cfg.WidthMultiplier = width
		plan, err := cfg.Plan()
		require.NoError(t, err)

		assert.Zero(t, plan.StemChannels%cfg.RoundTo)
		assert.Zero(t, plan.HeadChannels%cfg.RoundTo)
		assert.GreaterOrEqual(t, plan.StemChannels, prevStem)
		assert.GreaterOrEqual(t, plan.HeadChannels, prevHead)
		prevStem, prevHead = plan.StemChannels, plan.HeadChannels
	}
	assert.Equal(t, 48, prevStem)
	assert.Equal(t, 1792, prevHead)
}

func TestPlan_CustomStages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumClasses = 10
	cfg.Stages = []StageSpec{
		{Expansion: 1, Channels: 16, Repeats: 1, Stride: 1},
		{Expansion: 4, Channels: 24, Repeats: 2, Stride: 2},
	}

	plan, err := cfg.Plan()
	require.NoError(t, err)

	assert.Equal(t, 3, plan.NumBlocks())
	assert.Equal(t, 24, plan.LastChannels())
	assert.Equal(t, 4, plan.OutputStride())
}

func TestPlan_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WidthMultiplier = 0

	_, err := cfg.Plan()

	assert.ErrorIs(t, err, ErrInvalidConfig)
}
