// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/mobilenet/internal/nn"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Container is a module with named sub-modules.
type Container[B tensor.Backend] = nn.Container[B]

// Child is a named sub-module.
type Child[B tensor.Backend] = nn.Child[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NamedParameter pairs a parameter with its dotted path.
type NamedParameter[B tensor.Backend] = nn.NamedParameter[B]

// Kind tags parameter-bearing units for initialization.
type Kind = nn.Kind

// Unit kinds.
const (
	KindConv   = nn.KindConv
	KindNorm   = nn.KindNorm
	KindLinear = nn.KindLinear
)

// Initializable is a kind-tagged unit with a weight and optional bias.
type Initializable[B tensor.Backend] = nn.Initializable[B]

// Trainable is implemented by modules with distinct training behavior.
type Trainable = nn.Trainable

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Conv2D represents a 2D convolutional layer with channel grouping.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer with a square kernel.
//
// Example:
//
//	backend := cpu.New()
//	dw := nn.NewConv2D(32, 32, 3, 1, 1, 32, false, backend) // depthwise 3x3
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelSize int,
	stride, padding int,
	groups int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelSize, stride, padding, groups, useBias, backend)
}

// BatchNorm2D represents per-channel batch normalization.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a batch normalization layer over numFeatures channels.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(numFeatures, backend)
}

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(1280, 1000, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Dropout represents inverted dropout.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer with a seeded mask generator.
func NewDropout[B tensor.Backend](p float64, seed uint64) *Dropout[B] {
	return nn.NewDropout[B](p, seed)
}

// AdaptiveAvgPool2D represents adaptive average pooling.
type AdaptiveAvgPool2D[B tensor.Backend] = nn.AdaptiveAvgPool2D[B]

// NewAdaptiveAvgPool2D creates an adaptive average pooling layer.
func NewAdaptiveAvgPool2D[B tensor.Backend](outH, outW int, backend B) *AdaptiveAvgPool2D[B] {
	return nn.NewAdaptiveAvgPool2D(outH, outW, backend)
}

// Flatten collapses all but the batch dimension.
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Activations

// ReLU6 represents the clipped rectifier min(max(0, x), 6).
type ReLU6[B tensor.Backend] = nn.ReLU6[B]

// NewReLU6 creates a new ReLU6 activation layer.
func NewReLU6[B tensor.Backend](backend B) *ReLU6[B] {
	return nn.NewReLU6(backend)
}

// Containers

// Sequential represents a sequential container of modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new sequential container.
//
// Example:
//
//	model := nn.NewSequential[*cpu.Backend](
//	    nn.NewConv2D(3, 32, 3, 2, 1, 1, false, backend),
//	    nn.NewBatchNorm2D(32, backend),
//	    nn.NewReLU6(backend),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Traversal

// Walk visits every module under m in pre-order with its dotted path.
func Walk[B tensor.Backend](m Module[B], fn func(path string, m Module[B])) {
	nn.Walk(m, fn)
}

// NamedParameters returns every parameter under m with its dotted path.
func NamedParameters[B tensor.Backend](m Module[B]) []NamedParameter[B] {
	return nn.NamedParameters(m)
}

// SetTraining switches every Trainable module under m.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	nn.SetTraining(m, training)
}

// CountParameters returns the number of scalar parameters under m.
func CountParameters[B tensor.Backend](m Module[B]) int {
	return nn.CountParameters(m)
}
