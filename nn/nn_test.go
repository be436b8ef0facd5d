// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/mobilenet/backend/cpu"
	"github.com/born-ml/mobilenet/nn"
	"github.com/born-ml/mobilenet/tensor"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name     string
		module   nn.Module[*cpu.Backend]
		input    tensor.Shape
		expected tensor.Shape
	}{
		{
			name:     "Conv2D",
			module:   nn.NewConv2D(3, 8, 3, 2, 1, 1, false, backend),
			input:    tensor.Shape{2, 3, 8, 8},
			expected: tensor.Shape{2, 8, 4, 4},
		},
		{
			name:     "BatchNorm2D",
			module:   nn.NewBatchNorm2D(3, backend),
			input:    tensor.Shape{2, 3, 8, 8},
			expected: tensor.Shape{2, 3, 8, 8},
		},
		{
			name:     "Linear",
			module:   nn.NewLinear(10, 5, backend),
			input:    tensor.Shape{2, 10},
			expected: tensor.Shape{2, 5},
		},
		{
			name: "Sequential",
			module: nn.NewSequential[*cpu.Backend](
				nn.NewConv2D(3, 3, 3, 1, 1, 3, false, backend),
				nn.NewReLU6(backend),
				nn.NewAdaptiveAvgPool2D(1, 1, backend),
				nn.NewFlatten[*cpu.Backend](),
				nn.NewDropout[*cpu.Backend](0.1, 0),
			),
			input:    tensor.Shape{2, 3, 8, 8},
			expected: tensor.Shape{2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tensor.Randn[float32](tt.input, 1, backend)
			output := tt.module.Forward(input)
			assert.Equal(t, tt.expected, output.Shape())
		})
	}
}

func TestNamedParameters(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential[*cpu.Backend](
		nn.NewConv2D(3, 4, 1, 1, 0, 1, true, backend),
		nn.NewBatchNorm2D(4, backend),
	)

	var names []string
	for _, np := range nn.NamedParameters[*cpu.Backend](model) {
		names = append(names, np.Name)
	}

	assert.Equal(t, []string{"0.weight", "0.bias", "1.weight", "1.bias"}, names)
	assert.Equal(t, 12+4+8, nn.CountParameters[*cpu.Backend](model))
}
