package nn

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/tensor"
)

// AdaptiveAvgPool2D averages [N, C, H, W] into [N, C, outH, outW] for any
// input size.
type AdaptiveAvgPool2D[B tensor.Backend] struct {
	outH, outW int
	backend    B
}

// NewAdaptiveAvgPool2D creates an adaptive average pooling layer.
func NewAdaptiveAvgPool2D[B tensor.Backend](outH, outW int, backend B) *AdaptiveAvgPool2D[B] {
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: invalid output size %dx%d", outH, outW))
	}
	return &AdaptiveAvgPool2D[B]{outH: outH, outW: outW, backend: backend}
}

// Forward pools the spatial dimensions.
func (p *AdaptiveAvgPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return tensor.New[float32, B](p.backend.AdaptiveAvgPool2D(input.Raw(), p.outH, p.outW), p.backend)
}

// Parameters returns an empty slice.
func (p *AdaptiveAvgPool2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// String returns a string representation of the layer.
func (p *AdaptiveAvgPool2D[B]) String() string {
	return fmt.Sprintf("AdaptiveAvgPool2D(output_size=(%d, %d))", p.outH, p.outW)
}

// Flatten collapses every dimension after the first: [N, ...] -> [N, prod(...)].
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

// Forward reshapes input to two dimensions.
func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) < 1 {
		panic("flatten: scalar input")
	}
	n := shape[0]
	rest := 1
	if n > 0 {
		rest = shape.NumElements() / n
	}
	return input.Reshape(n, rest)
}

// Parameters returns an empty slice.
func (f *Flatten[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// String returns a string representation of the layer.
func (f *Flatten[B]) String() string {
	return "Flatten()"
}
