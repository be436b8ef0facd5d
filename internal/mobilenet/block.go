package mobilenet

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/nn"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// depthwiseKernel is the spatial kernel of every block's depthwise stage.
const depthwiseKernel = 3

// BlockConfig holds the resolved hyperparameters of one inverted residual block.
type BlockConfig struct {
	InChannels      int `json:"in_channels"`
	OutChannels     int `json:"out_channels"`
	Stride          int `json:"stride"`
	ExpansionFactor int `json:"expansion_factor"`
}

// HiddenChannels returns the expanded width InChannels * ExpansionFactor.
func (c BlockConfig) HiddenChannels() int {
	return c.InChannels * c.ExpansionFactor
}

// UsesShortcut reports whether the block adds its input to its output.
func (c BlockConfig) UsesShortcut() bool {
	return c.Stride == 1 && c.InChannels == c.OutChannels
}

// InvertedResidual expands, filters depthwise and projects back down,
// with an identity shortcut when input and output shapes match.
//
//	in --[1x1 expand, if t != 1]--[3x3 depthwise, stride]--[1x1 project, no act]--> out
//	 \_____________________________ + (stride 1, in == out) ______________________/
type InvertedResidual[B tensor.Backend] struct {
	cfg         BlockConfig
	useShortcut bool

	conv       *nn.Sequential[B]
	expand     *ConvNormAct[B] // nil when ExpansionFactor == 1
	depthwise  *ConvNormAct[B]
	projection *nn.Conv2D[B]
	projNorm   *nn.BatchNorm2D[B]
}

// NewInvertedResidual builds a block from cfg.
//
// Panics on non-positive channels, stride or expansion.
func NewInvertedResidual[B tensor.Backend](cfg BlockConfig, backend B) *InvertedResidual[B] {
	if cfg.InChannels <= 0 || cfg.OutChannels <= 0 || cfg.Stride <= 0 || cfg.ExpansionFactor <= 0 {
		panic(fmt.Sprintf("inverted residual: invalid config %+v", cfg))
	}
	hidden := cfg.HiddenChannels()

	b := &InvertedResidual[B]{
		cfg:         cfg,
		useShortcut: cfg.UsesShortcut(),
		conv:        nn.NewSequential[B](),
	}

	if cfg.ExpansionFactor != 1 {
		b.expand = NewConvNormAct(cfg.InChannels, hidden, 1, 1, 1, backend)
		b.conv.Add(b.expand)
	}
	b.depthwise = NewConvNormAct(hidden, hidden, depthwiseKernel, cfg.Stride, hidden, backend)
	b.projection = nn.NewConv2D(hidden, cfg.OutChannels, 1, 1, 0, 1, false, backend)
	b.projNorm = nn.NewBatchNorm2D(cfg.OutChannels, backend)
	b.conv.Add(b.depthwise)
	b.conv.Add(b.projection)
	b.conv.Add(b.projNorm)

	if b.useShortcut {
		if b.projection.OutChannels() != cfg.InChannels {
			panic(fmt.Sprintf("inverted residual: shortcut needs %d output channels, projection gives %d",
				cfg.InChannels, b.projection.OutChannels()))
		}
		if b.depthwise.Conv().KernelSize()%2 == 0 {
			panic(fmt.Sprintf("inverted residual: shortcut needs an odd depthwise kernel, got %d",
				b.depthwise.Conv().KernelSize()))
		}
	}

	return b
}

// Forward computes conv(x), plus x when the shortcut is active.
func (b *InvertedResidual[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := b.conv.Forward(input)
	if b.useShortcut {
		return input.Add(out)
	}
	return out
}

// Parameters returns the parameters of every stage in forward order.
func (b *InvertedResidual[B]) Parameters() []*nn.Parameter[B] {
	return b.conv.Parameters()
}

// Children exposes the stage pipeline as "conv".
func (b *InvertedResidual[B]) Children() []nn.Child[B] {
	return []nn.Child[B]{{Name: "conv", Module: b.conv}}
}

// Config returns the block hyperparameters.
func (b *InvertedResidual[B]) Config() BlockConfig {
	return b.cfg
}

// UsesShortcut reports whether the identity shortcut is active.
func (b *InvertedResidual[B]) UsesShortcut() bool {
	return b.useShortcut
}

// Expand returns the 1x1 expansion unit, or nil when the block has none.
func (b *InvertedResidual[B]) Expand() *ConvNormAct[B] {
	return b.expand
}

// Depthwise returns the depthwise unit.
func (b *InvertedResidual[B]) Depthwise() *ConvNormAct[B] {
	return b.depthwise
}

// Projection returns the linear 1x1 projection convolution.
func (b *InvertedResidual[B]) Projection() *nn.Conv2D[B] {
	return b.projection
}

// ProjectionNorm returns the normalization after the projection.
func (b *InvertedResidual[B]) ProjectionNorm() *nn.BatchNorm2D[B] {
	return b.projNorm
}

// NumStages returns the length of the stage pipeline.
func (b *InvertedResidual[B]) NumStages() int {
	return b.conv.Len()
}

// String returns a one-line description.
func (b *InvertedResidual[B]) String() string {
	return fmt.Sprintf("InvertedResidual(%d, %d, stride=%d, expand=%d, shortcut=%v)",
		b.cfg.InChannels, b.cfg.OutChannels, b.cfg.Stride, b.cfg.ExpansionFactor, b.useShortcut)
}
