// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers the classifier is built from.
//
// # Overview
//
// This package contains:
//   - Layers: Conv2D (dense, grouped, depthwise), BatchNorm2D, Linear
//   - Activations: ReLU6
//   - Regularization: Dropout
//   - Pooling: AdaptiveAvgPool2D, Flatten
//   - Utilities: Sequential, Module interface, Parameter, Walk, NamedParameters
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mobilenet/backend/cpu"
//	    "github.com/born-ml/mobilenet/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    unit := nn.NewSequential[*cpu.Backend](
//	        nn.NewConv2D(3, 32, 3, 2, 1, 1, false, backend),
//	        nn.NewBatchNorm2D(32, backend),
//	        nn.NewReLU6(backend),
//	    )
//
//	    output := unit.Forward(input)
//	}
//
// # Parameter Names
//
// Sequential names its children "0", "1", ... and containers expose named
// children, so NamedParameters yields paths such as
// "features.1.conv.0.0.weight".
//
// # Initialization
//
// Layers allocate zero weights (BatchNorm2D starts at scale 1, shift 0).
// Initialization is applied by the network builder through the Initializable
// interface, keyed by Kind.
package nn
