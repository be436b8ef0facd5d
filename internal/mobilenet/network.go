package mobilenet

import (
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/mobilenet/internal/nn"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// Network is the assembled classifier:
//
//	features (stem, blocks, head) -> global average pool -> flatten -> classifier (dropout, linear)
//
// Parameter paths follow the usual layout, e.g. "features.0.0.weight" for
// the stem convolution and "classifier.1.bias" for the logits bias.
type Network[B tensor.Backend] struct {
	cfg  Config
	plan Plan

	features *nn.Sequential[B]
	stem     *ConvNormAct[B]
	blocks   []*InvertedResidual[B]
	head     *ConvNormAct[B]

	pool    *nn.AdaptiveAvgPool2D[B]
	flatten *nn.Flatten[B]

	classifier *nn.Sequential[B]
	dropout    *nn.Dropout[B]
	linear     *nn.Linear[B]

	training bool
}

// Build creates a network with the given class count, width multiplier and
// rounding granularity. Other settings come from DefaultConfig.
func Build[B tensor.Backend](numClasses int, widthMultiplier float64, roundTo int, backend B) (*Network[B], error) {
	cfg := DefaultConfig()
	cfg.NumClasses = numClasses
	cfg.WidthMultiplier = widthMultiplier
	cfg.RoundTo = roundTo
	return New(cfg, backend)
}

// New assembles a network from cfg and initializes every parameter once
// with DefaultInitPolicy(). The network starts in inference mode.
func New[B tensor.Backend](cfg Config, backend B) (*Network[B], error) {
	plan, err := cfg.Plan()
	if err != nil {
		return nil, err
	}

	n := &Network[B]{
		cfg:      cfg,
		plan:     plan,
		features: nn.NewSequential[B](),
		pool:     nn.NewAdaptiveAvgPool2D(1, 1, backend),
		flatten:  nn.NewFlatten[B](),
	}

	n.stem = NewConvNormAct(plan.InputChannels, plan.StemChannels, stemKernel, stemStride, 1, backend)
	n.features.Add(n.stem)

	for _, bc := range plan.Blocks() {
		block := NewInvertedResidual(bc, backend)
		n.blocks = append(n.blocks, block)
		n.features.Add(block)
	}

	n.head = NewConvNormAct(plan.LastChannels(), plan.HeadChannels, 1, 1, 1, backend)
	n.features.Add(n.head)

	n.dropout = nn.NewDropout[B](cfg.DropoutRate, cfg.Seed)
	n.linear = nn.NewLinear(plan.HeadChannels, plan.NumClasses, backend)
	n.classifier = nn.NewSequential[B](n.dropout, n.linear)

	if err := n.Reinitialize(cfg.Seed); err != nil {
		return nil, err
	}
	return n, nil
}

// Reinitialize re-randomizes every parameter with DefaultInitPolicy().
// It is not idempotent: each call draws fresh weights for seed.
func (n *Network[B]) Reinitialize(seed uint64) error {
	return Initialize(nn.Initializables[B](n), DefaultInitPolicy(), seed)
}

// Forward maps images [N, C, H, W] to logits [N, num_classes].
func (n *Network[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := n.features.Forward(input)
	x = n.pool.Forward(x)
	x = n.flatten.Forward(x)
	return n.classifier.Forward(x)
}

// Embed returns the pooled feature vectors [N, head_channels], skipping the classifier.
func (n *Network[B]) Embed(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return n.flatten.Forward(n.pool.Forward(n.features.Forward(input)))
}

// Parameters returns every parameter, features first.
func (n *Network[B]) Parameters() []*nn.Parameter[B] {
	return append(n.features.Parameters(), n.classifier.Parameters()...)
}

// Children returns "features" and "classifier".
func (n *Network[B]) Children() []nn.Child[B] {
	return []nn.Child[B]{
		{Name: "features", Module: n.features},
		{Name: "classifier", Module: n.classifier},
	}
}

// NamedParameters returns every parameter with its dotted path.
func (n *Network[B]) NamedParameters() []nn.NamedParameter[B] {
	return nn.NamedParameters[B](n)
}

// NumParameters returns the total number of scalar parameters.
func (n *Network[B]) NumParameters() int {
	return nn.CountParameters[B](n)
}

// SetTraining switches dropout and batch normalization between training
// and inference behavior.
func (n *Network[B]) SetTraining(training bool) {
	n.training = training
	nn.SetTraining[B](n.features, training)
	nn.SetTraining[B](n.classifier, training)
}

// Training reports the current mode.
func (n *Network[B]) Training() bool {
	return n.training
}

// Features returns the feature extractor modules: stem, blocks, head.
// The slice is a copy; the network's structure is fixed at construction.
func (n *Network[B]) Features() []nn.Module[B] {
	return n.features.Modules()
}

// Classifier returns the classifier modules: dropout, then linear.
func (n *Network[B]) Classifier() []nn.Module[B] {
	return n.classifier.Modules()
}

// Stem returns the first convolution unit.
func (n *Network[B]) Stem() *ConvNormAct[B] {
	return n.stem
}

// Blocks returns the inverted residual blocks in forward order.
func (n *Network[B]) Blocks() []*InvertedResidual[B] {
	return slices.Clone(n.blocks)
}

// Head returns the final 1x1 convolution unit.
func (n *Network[B]) Head() *ConvNormAct[B] {
	return n.head
}

// Linear returns the classifier's linear layer.
func (n *Network[B]) Linear() *nn.Linear[B] {
	return n.linear
}

// Dropout returns the classifier's dropout layer.
func (n *Network[B]) Dropout() *nn.Dropout[B] {
	return n.dropout
}

// Plan returns the resolved architecture.
func (n *Network[B]) Plan() Plan {
	return n.plan
}

// Config returns the construction config.
func (n *Network[B]) Config() Config {
	return n.cfg
}

// String renders a layer summary table with parameter counts.
func (n *Network[B]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MobileNetV2(num_classes=%d, width_multiplier=%g, round_to=%d)\n",
		n.cfg.NumClasses, n.cfg.WidthMultiplier, n.cfg.RoundTo)
	fmt.Fprintf(&sb, "%-5s %-18s %6s %6s %6s %6s %8s %10s\n",
		"idx", "layer", "in", "out", "stride", "expand", "shortcut", "params")

	row := func(idx, name string, in, out, stride int, expand, shortcut string, params int) {
		fmt.Fprintf(&sb, "%-5s %-18s %6d %6d %6d %6s %8s %10d\n",
			idx, name, in, out, stride, expand, shortcut, params)
	}

	row("0", "stem", n.stem.InChannels(), n.stem.OutChannels(), stemStride, "-", "-",
		nn.CountParameters[B](n.stem))
	for i, b := range n.blocks {
		cfg := b.Config()
		shortcut := "no"
		if b.UsesShortcut() {
			shortcut = "yes"
		}
		row(fmt.Sprint(i+1), "inverted_residual", cfg.InChannels, cfg.OutChannels, cfg.Stride,
			fmt.Sprint(cfg.ExpansionFactor), shortcut, nn.CountParameters[B](b))
	}
	row(fmt.Sprint(len(n.blocks)+1), "head", n.head.InChannels(), n.head.OutChannels(), 1, "-", "-",
		nn.CountParameters[B](n.head))
	row("", "classifier", n.linear.InFeatures(), n.linear.OutFeatures(), 0, "-", "-",
		nn.CountParameters[B](n.classifier))

	fmt.Fprintf(&sb, "total parameters: %d", n.NumParameters())
	return sb.String()
}
