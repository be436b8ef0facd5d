// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API used to feed images into a
// network and read back class scores.
//
// Example:
//
//	backend := cpu.New()
//	images := tensor.Randn[float32](tensor.Shape{2, 3, 224, 224}, 42, backend)
//	logits := net.Forward(images) // [2, 1000]
package tensor

import (
	"github.com/born-ml/mobilenet/internal/tensor"
)

// DType is a constraint for tensor element types (float32, float64).
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the host device.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// RawTensor is the untyped tensor representation passed to backends.
type RawTensor = tensor.RawTensor

// Backend is the set of primitives a compute backend provides.
type Backend = tensor.Backend

// ReLU6Backend is implemented by backends that provide a fused ReLU6.
type ReLU6Backend = tensor.ReLU6Backend

// Tensor is a generic typed tensor bound to a backend.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// NewRaw allocates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a tensor of N(0, 1) samples drawn from a seeded source.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Randn[float32](tensor.Shape{1, 3, 224, 224}, 7, backend)
func Randn[T DType, B Backend](shape Shape, seed uint64, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, seed, b)
}

// FromSlice creates a tensor from a Go slice, copying the data.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New wraps a RawTensor produced by a backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}
