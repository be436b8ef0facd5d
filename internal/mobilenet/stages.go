package mobilenet

// Fixed architecture constants, before width scaling.
const (
	stemChannels = 32
	stemKernel   = 3
	stemStride   = 2
	headChannels = 1280
)

// StageSpec describes one stage: Repeats blocks with expansion factor
// Expansion and Channels output channels. Only the first block uses
// Stride; the rest use stride 1.
type StageSpec struct {
	Expansion int `json:"t"`
	Channels  int `json:"c"`
	Repeats   int `json:"n"`
	Stride    int `json:"s"`
}

// DefaultStages returns the standard seven-stage table.
func DefaultStages() []StageSpec {
	return []StageSpec{
		{Expansion: 1, Channels: 16, Repeats: 1, Stride: 1},
		{Expansion: 6, Channels: 24, Repeats: 2, Stride: 2},
		{Expansion: 6, Channels: 32, Repeats: 3, Stride: 2},
		{Expansion: 6, Channels: 64, Repeats: 4, Stride: 2},
		{Expansion: 6, Channels: 96, Repeats: 3, Stride: 1},
		{Expansion: 6, Channels: 160, Repeats: 3, Stride: 2},
		{Expansion: 6, Channels: 320, Repeats: 1, Stride: 1},
	}
}

// StagePlan is a stage resolved against a width multiplier.
type StagePlan struct {
	Spec        StageSpec     `json:"spec"`
	OutChannels int           `json:"out_channels"`
	Blocks      []BlockConfig `json:"blocks"`
}

// Plan is the fully resolved architecture: every channel count and stride,
// without any tensors.
type Plan struct {
	InputChannels int         `json:"input_channels"`
	StemChannels  int         `json:"stem_channels"`
	Stages        []StagePlan `json:"stages"`
	HeadChannels  int         `json:"head_channels"`
	NumClasses    int         `json:"num_classes"`
}

// Plan resolves the configuration into per-block hyperparameters.
//
// Stage output channels are RoundChannels(c * WidthMultiplier, RoundTo).
// The running input channel count starts at the stem width and becomes
// each block's output width in turn.
func (c Config) Plan() (Plan, error) {
	if err := c.Validate(); err != nil {
		return Plan{}, err
	}

	p := Plan{
		InputChannels: c.InputChannels,
		StemChannels:  RoundChannels(stemChannels*c.WidthMultiplier, c.RoundTo, 0),
		HeadChannels:  RoundChannels(headChannels*c.WidthMultiplier, c.RoundTo, 0),
		NumClasses:    c.NumClasses,
		Stages:        make([]StagePlan, 0, len(c.Stages)),
	}

	in := p.StemChannels
	for _, spec := range c.Stages {
		out := RoundChannels(float64(spec.Channels)*c.WidthMultiplier, c.RoundTo, 0)
		stage := StagePlan{Spec: spec, OutChannels: out, Blocks: make([]BlockConfig, 0, spec.Repeats)}
		for i := 0; i < spec.Repeats; i++ {
			stride := 1
			if i == 0 {
				stride = spec.Stride
			}
			stage.Blocks = append(stage.Blocks, BlockConfig{
				InChannels:      in,
				OutChannels:     out,
				Stride:          stride,
				ExpansionFactor: spec.Expansion,
			})
			in = out
		}
		p.Stages = append(p.Stages, stage)
	}

	return p, nil
}

// Blocks returns every block in forward order.
func (p Plan) Blocks() []BlockConfig {
	var blocks []BlockConfig
	for _, s := range p.Stages {
		blocks = append(blocks, s.Blocks...)
	}
	return blocks
}

// NumBlocks returns the number of inverted residual blocks.
func (p Plan) NumBlocks() int {
	n := 0
	for _, s := range p.Stages {
		n += len(s.Blocks)
	}
	return n
}

// NumShortcuts returns how many blocks use the identity shortcut.
func (p Plan) NumShortcuts() int {
	n := 0
	for _, b := range p.Blocks() {
		if b.UsesShortcut() {
			n++
		}
	}
	return n
}

// LastChannels returns the channel count entering the head.
func (p Plan) LastChannels() int {
	if len(p.Stages) == 0 {
		return p.StemChannels
	}
	return p.Stages[len(p.Stages)-1].OutChannels
}

// OutputStride returns the total spatial downsampling factor of the features.
func (p Plan) OutputStride() int {
	stride := stemStride
	for _, b := range p.Blocks() {
		stride *= b.Stride
	}
	return stride
}
