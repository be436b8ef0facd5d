package nn

import (
	"github.com/born-ml/mobilenet/internal/tensor"
)

// Parameter is a learnable tensor owned by exactly one layer.
type Parameter[B tensor.Backend] struct {
	name   string // local name, e.g. "weight" or "bias"
	tensor *tensor.Tensor[float32, B]
}

// NewParameter wraps a tensor as a named parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter's local name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Shape returns the parameter shape.
func (p *Parameter[B]) Shape() tensor.Shape {
	return p.tensor.Shape()
}

// NumElements returns the number of scalar values in the parameter.
func (p *Parameter[B]) NumElements() int {
	return p.tensor.NumElements()
}
