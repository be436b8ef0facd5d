package nn

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/tensor"
)

// Conv2D is a 2D convolutional layer with optional channel grouping.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels/groups, kernel, kernel]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel) / stride + 1
//	out_w = (width + 2*padding - kernel) / stride + 1
//
// groups == 1 is a dense convolution. groups == in_channels == out_channels
// is a depthwise convolution: one filter per channel, no channel mixing.
//
// Weights are allocated zero-filled; an initialization pass is expected to
// fill them (see KaimingNormal).
//
// Example:
//
//	// 3x3 depthwise convolution over 96 channels, stride 2
//	dw := nn.NewConv2D(96, 96, 3, 2, 1, 96, false, backend)
//	out := dw.Forward(input) // [N, 96, H/2, W/2]
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int
	groups      int

	weight *Parameter[B] // [out_channels, in_channels/groups, k, k]
	bias   *Parameter[B] // [out_channels] or nil

	backend B
}

// NewConv2D creates a new square-kernel 2D convolutional layer.
//
// Panics if any size is non-positive, padding is negative, or the channel
// counts are not divisible by groups.
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelSize int,
	stride, padding int,
	groups int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}
	if groups <= 0 || inChannels%groups != 0 || outChannels%groups != 0 {
		panic(fmt.Sprintf("conv2d: channels in=%d, out=%d not divisible by groups=%d", inChannels, outChannels, groups))
	}

	weightShape := tensor.Shape{outChannels, inChannels / groups, kernelSize, kernelSize}
	weight := NewParameter("weight", tensor.Zeros[float32](weightShape, backend))

	var bias *Parameter[B]
	if useBias {
		bias = NewParameter("bias", tensor.Zeros[float32](tensor.Shape{outChannels}, backend))
	}

	return &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		groups:      groups,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward performs the convolution.
//
// Input: [batch, in_channels, height, width]
// Output: [batch, out_channels, out_h, out_w].
func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}
	if inputShape[1] != c.inChannels {
		panic(fmt.Sprintf("conv2d: input channels %d != expected %d", inputShape[1], c.inChannels))
	}

	outputRaw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.stride, c.padding, c.groups)
	output := tensor.New[float32, B](outputRaw, c.backend)

	if c.bias != nil {
		output = output.Add(c.bias.Tensor().Reshape(1, c.outChannels, 1, 1))
	}

	return output
}

// Parameters returns all trainable parameters.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// Kind reports KindConv.
func (c *Conv2D[B]) Kind() Kind {
	return KindConv
}

// Weight returns the kernel parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Bias returns the bias parameter, or nil.
func (c *Conv2D[B]) Bias() *Parameter[B] {
	return c.bias
}

// String returns a string representation of the layer.
func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(%d, %d, kernel_size=%d, stride=%d, padding=%d, groups=%d, bias=%v)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.padding, c.groups, c.bias != nil)
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int {
	return c.inChannels
}

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int {
	return c.outChannels
}

// KernelSize returns the square kernel size.
func (c *Conv2D[B]) KernelSize() int {
	return c.kernelSize
}

// Stride returns the stride.
func (c *Conv2D[B]) Stride() int {
	return c.stride
}

// Padding returns the padding.
func (c *Conv2D[B]) Padding() int {
	return c.padding
}

// Groups returns the grouping factor.
func (c *Conv2D[B]) Groups() int {
	return c.groups
}

// IsDepthwise reports whether every channel is filtered independently.
func (c *Conv2D[B]) IsDepthwise() bool {
	return c.groups == c.inChannels && c.groups == c.outChannels
}

// ComputeOutputSize computes output spatial dimensions for the given input size.
func (c *Conv2D[B]) ComputeOutputSize(inputH, inputW int) [2]int {
	outH := (inputH+2*c.padding-c.kernelSize)/c.stride + 1
	outW := (inputW+2*c.padding-c.kernelSize)/c.stride + 1
	return [2]int{outH, outW}
}
