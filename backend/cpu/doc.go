// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col + GEMM convolutions (gonum BLAS), grouped and depthwise
//   - Batch normalization, ReLU6 and adaptive average pooling
//   - NumPy-compatible broadcasting for Add and Mul
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mobilenet/backend/cpu"
//	    "github.com/born-ml/mobilenet/mobilenet"
//	    "github.com/born-ml/mobilenet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    net, err := mobilenet.Build(1000, 1.0, 8, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    images := tensor.Randn[float32](tensor.Shape{2, 3, 224, 224}, 1, backend)
//	    logits := net.Forward(images) // [2, 1000]
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
