// Package nn implements the neural network layers the classifier is assembled from.
//
// This package provides:
//   - Module interface: forward contract shared by every layer
//   - Container: modules that own named sub-modules
//   - Kind / Initializable: kind-tagged units for table-driven initialization
//   - Layers: Conv2D, BatchNorm2D, ReLU6, Dropout, AdaptiveAvgPool2D, Flatten, Linear
//   - Sequential: ordered composition of modules
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/mobilenet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build larger architectures:
//
//	block := nn.NewSequential[B](
//	    nn.NewConv2D(32, 32, 3, 1, 1, 32, false, backend),
//	    nn.NewBatchNorm2D(32, backend),
//	    nn.NewReLU6(backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters, including those of
	// nested modules. Parameter-free modules return an empty slice.
	Parameters() []*Parameter[B]
}

// Child is a named sub-module of a Container.
type Child[B tensor.Backend] struct {
	Name   string
	Module Module[B]
}

// Container is implemented by modules that own sub-modules.
//
// Children must be returned in forward order and their names must be
// stable, since they form the dotted parameter paths.
type Container[B tensor.Backend] interface {
	Module[B]
	Children() []Child[B]
}

// Kind tags a parameter-bearing unit for initialization dispatch.
type Kind int

// Parameter-bearing unit kinds.
const (
	KindConv Kind = iota
	KindNorm
	KindLinear
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindConv:
		return "conv"
	case KindNorm:
		return "norm"
	case KindLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// Initializable is a leaf unit whose weight and optional bias are filled by
// an initialization policy. For normalization units the weight is the
// scale and the bias is the shift.
type Initializable[B tensor.Backend] interface {
	Module[B]
	Kind() Kind
	Weight() *Parameter[B]
	// Bias returns nil when the unit has no bias.
	Bias() *Parameter[B]
}

// Trainable is implemented by modules whose forward pass differs between
// training and inference (dropout, batch statistics).
type Trainable interface {
	SetTraining(training bool)
	Training() bool
}
