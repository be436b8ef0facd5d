package mobilenet

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/nn"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// ConvNormAct is convolution, batch normalization and ReLU6 in sequence.
//
// The convolution has no bias and "same" padding (kernel-1)/2. groups == 1
// is a dense convolution; groups == in is depthwise.
type ConvNormAct[B tensor.Backend] struct {
	seq  *nn.Sequential[B]
	conv *nn.Conv2D[B]
	norm *nn.BatchNorm2D[B]
}

// NewConvNormAct creates a conv-norm-ReLU6 unit mapping in to out channels.
func NewConvNormAct[B tensor.Backend](in, out, kernel, stride, groups int, backend B) *ConvNormAct[B] {
	conv := nn.NewConv2D(in, out, kernel, stride, (kernel-1)/2, groups, false, backend)
	norm := nn.NewBatchNorm2D(out, backend)
	return &ConvNormAct[B]{
		seq:  nn.NewSequential[B](conv, norm, nn.NewReLU6(backend)),
		conv: conv,
		norm: norm,
	}
}

// Forward applies convolution, normalization and ReLU6.
func (c *ConvNormAct[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return c.seq.Forward(input)
}

// Parameters returns the convolution weight, then the normalization scale and shift.
func (c *ConvNormAct[B]) Parameters() []*nn.Parameter[B] {
	return c.seq.Parameters()
}

// Children returns the three stages named "0", "1" and "2".
func (c *ConvNormAct[B]) Children() []nn.Child[B] {
	return c.seq.Children()
}

// Conv returns the convolution.
func (c *ConvNormAct[B]) Conv() *nn.Conv2D[B] {
	return c.conv
}

// Norm returns the normalization layer.
func (c *ConvNormAct[B]) Norm() *nn.BatchNorm2D[B] {
	return c.norm
}

// InChannels returns the input channel count.
func (c *ConvNormAct[B]) InChannels() int {
	return c.conv.InChannels()
}

// OutChannels returns the output channel count.
func (c *ConvNormAct[B]) OutChannels() int {
	return c.conv.OutChannels()
}

// IsDepthwise reports whether the convolution filters each channel independently.
func (c *ConvNormAct[B]) IsDepthwise() bool {
	return c.conv.IsDepthwise()
}

// String returns a one-line description.
func (c *ConvNormAct[B]) String() string {
	return fmt.Sprintf("ConvNormAct(%d, %d, kernel_size=%d, stride=%d, groups=%d)",
		c.conv.InChannels(), c.conv.OutChannels(), c.conv.KernelSize(), c.conv.Stride(), c.conv.Groups())
}
