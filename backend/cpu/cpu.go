// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/mobilenet/internal/backend/cpu"
	"github.com/born-ml/mobilenet/internal/parallel"
	"github.com/born-ml/mobilenet/tensor"
)

// Backend represents the CPU backend implementation.
//
// Convolutions run as im2col + GEMM, with a direct kernel for depthwise
// convolutions. Work is split across (batch, channel) pairs.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how the backend spreads work across goroutines.
type ParallelConfig = parallel.Config

// Compile-time checks that Backend implements the tensor interfaces.
var (
	_ tensor.Backend      = (*Backend)(nil)
	_ tensor.ReLU6Backend = (*Backend)(nil)
)

// New creates a new CPU backend using all available cores.
//
// Example:
//
//	import (
//	    "github.com/born-ml/mobilenet/backend/cpu"
//	    "github.com/born-ml/mobilenet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3, 224, 224}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithParallel creates a CPU backend with explicit parallelism settings.
// A zero ParallelConfig runs everything on the calling goroutine.
func NewWithParallel(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithParallel(cfg)
}

// DefaultParallelConfig returns one worker per CPU.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}
