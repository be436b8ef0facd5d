package mobilenet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mobilenet/internal/backend/cpu"
	"github.com/born-ml/mobilenet/internal/nn"
	"github.com/born-ml/mobilenet/internal/tensor"
)

func TestBlockConfig_UsesShortcut(t *testing.T) {
	tests := []struct {
		name     string
		cfg      BlockConfig
		expected bool
	}{
		{"same channels stride 1", BlockConfig{InChannels: 24, OutChannels: 24, Stride: 1, ExpansionFactor: 6}, true},
		{"channel change stride 1", BlockConfig{InChannels: 24, OutChannels: 32, Stride: 1, ExpansionFactor: 6}, false},
		{"same channels stride 2", BlockConfig{InChannels: 24, OutChannels: 24, Stride: 2, ExpansionFactor: 6}, false},
		{"channel change stride 2", BlockConfig{InChannels: 24, OutChannels: 32, Stride: 2, ExpansionFactor: 6}, false},
		{"no expansion", BlockConfig{InChannels: 16, OutChannels: 16, Stride: 1, ExpansionFactor: 1}, true},
	}

	backend := cpu.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.UsesShortcut())
			assert.Equal(t, tt.expected, NewInvertedResidual(tt.cfg, backend).UsesShortcut())
		})
	}
}

func TestInvertedResidual_Expanded(t *testing.T) {
	backend := cpu.New()
	cfg := BlockConfig{InChannels: 24, OutChannels: 32, Stride: 2, ExpansionFactor: 6}

	block := NewInvertedResidual(cfg, backend)

	assert.Equal(t, 144, cfg.HiddenChannels())
	assert.Equal(t, cfg, block.Config())
	assert.Equal(t, 4, block.NumStages())

	require.NotNil(t, block.Expand())
	assert.Equal(t, 24, block.Expand().InChannels())
	assert.Equal(t, 144, block.Expand().OutChannels())
	assert.Equal(t, 1, block.Expand().Conv().KernelSize())

	assert.True(t, block.Depthwise().IsDepthwise())
	assert.Equal(t, 144, block.Depthwise().Conv().Groups())
	assert.Equal(t, 2, block.Depthwise().Conv().Stride())
	assert.Equal(t, 3, block.Depthwise().Conv().KernelSize())

	assert.Equal(t, 144, block.Projection().InChannels())
	assert.Equal(t, 32, block.Projection().OutChannels())
	assert.Nil(t, block.Projection().Bias())
	assert.Equal(t, 32, block.ProjectionNorm().NumFeatures())

	// 24*144 + 2*144 + 144*9 + 2*144 + 144*32 + 2*32
	assert.Equal(t, 3456+288+1296+288+4608+64, nn.CountParameters[testBackend](block))

	out := block.Forward(tensor.Randn[float32](tensor.Shape{2, 24, 14, 14}, 1, backend))
	assert.Equal(t, tensor.Shape{2, 32, 7, 7}, out.Shape())
}

// TestInvertedResidual_NoExpansion checks that expansion factor 1 drops the
// expansion stage.
func TestInvertedResidual_NoExpansion(t *testing.T) {
	backend := cpu.New()

	block := NewInvertedResidual(BlockConfig{InChannels: 32, OutChannels: 16, Stride: 1, ExpansionFactor: 1}, backend)

	assert.Nil(t, block.Expand())
	assert.Equal(t, 3, block.NumStages())
	assert.Equal(t, 32, block.Depthwise().InChannels())
	assert.False(t, block.UsesShortcut())

	out := block.Forward(tensor.Randn[float32](tensor.Shape{1, 32, 8, 8}, 2, backend))
	assert.Equal(t, tensor.Shape{1, 16, 8, 8}, out.Shape())
}

// TestInvertedResidual_ShortcutAddsInput zeroes the projection norm so the
// pipeline outputs zeros; the block must then return its input.
func TestInvertedResidual_ShortcutAddsInput(t *testing.T) {
	backend := cpu.New()
	block := NewInvertedResidual(BlockConfig{InChannels: 8, OutChannels: 8, Stride: 1, ExpansionFactor: 6}, backend)
	require.True(t, block.UsesShortcut())
	nn.ConstantFill(block.ProjectionNorm().Weight(), 0)

	input := tensor.Randn[float32](tensor.Shape{2, 8, 6, 6}, 9, backend)
	out := block.Forward(input)

	assert.Equal(t, input.Shape(), out.Shape())
	assert.InDeltaSlice(t, input.Data(), out.Data(), 1e-6)
}

// TestInvertedResidual_NoShortcutIsPipeline checks the same setup without a
// shortcut yields the zero pipeline output.
func TestInvertedResidual_NoShortcutIsPipeline(t *testing.T) {
	backend := cpu.New()
	block := NewInvertedResidual(BlockConfig{InChannels: 8, OutChannels: 16, Stride: 1, ExpansionFactor: 6}, backend)
	nn.ConstantFill(block.ProjectionNorm().Weight(), 0)

	out := block.Forward(tensor.Randn[float32](tensor.Shape{1, 8, 6, 6}, 9, backend))

	for _, v := range out.Data() {
		require.Zero(t, v)
	}
}

func TestInvertedResidual_ParameterNames(t *testing.T) {
	backend := cpu.New()

	expanded := NewInvertedResidual(BlockConfig{InChannels: 16, OutChannels: 24, Stride: 2, ExpansionFactor: 6}, backend)
	plain := NewInvertedResidual(BlockConfig{InChannels: 32, OutChannels: 16, Stride: 1, ExpansionFactor: 1}, backend)

	names := func(m nn.Module[testBackend]) []string {
		var out []string
		for _, np := range nn.NamedParameters(m) {
			out = append(out, np.Name)
		}
		return out
	}

	assert.Equal(t, []string{
		"conv.0.0.weight", "conv.0.1.weight", "conv.0.1.bias",
		"conv.1.0.weight", "conv.1.1.weight", "conv.1.1.bias",
		"conv.2.weight",
		"conv.3.weight", "conv.3.bias",
	}, names(expanded))
	assert.Equal(t, []string{
		"conv.0.0.weight", "conv.0.1.weight", "conv.0.1.bias",
		"conv.1.weight",
		"conv.2.weight", "conv.2.bias",
	}, names(plain))
}

func TestInvertedResidual_InvalidConfig(t *testing.T) {
	backend := cpu.New()

	assert.Panics(t, func() {
		NewInvertedResidual(BlockConfig{InChannels: 0, OutChannels: 8, Stride: 1, ExpansionFactor: 6}, backend)
	})
	assert.Panics(t, func() {
		NewInvertedResidual(BlockConfig{InChannels: 8, OutChannels: 8, Stride: 0, ExpansionFactor: 6}, backend)
	})
	assert.Panics(t, func() {
		NewInvertedResidual(BlockConfig{InChannels: 8, OutChannels: 8, Stride: 1, ExpansionFactor: 0}, backend)
	})
}
