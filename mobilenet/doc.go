// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mobilenet builds width-scalable inverted-residual image classifiers.
//
// # Overview
//
// A network is fully determined by three numbers: the class count, a width
// multiplier scaling every channel count, and the rounding granularity that
// keeps channel counts hardware-aligned. Build resolves the stage table into
// 17 inverted residual blocks between a stride-2 stem and a 1x1 head, adds
// global pooling and a dropout + linear classifier, and initializes every
// parameter once.
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
// # Inspecting the Architecture
//
// Config.Plan resolves every block's channels and stride without allocating
// tensors:
//
//	plan, _ := mobilenet.DefaultConfig().Plan()
//	for _, b := range plan.Blocks() {
//	    fmt.Println(b.InChannels, b.OutChannels, b.Stride, b.UsesShortcut())
//	}
//
// # Configuration Errors
//
// Non-positive class counts, width multipliers or rounding granularity are
// rejected with an error wrapping ErrInvalidConfig.
//
// # Thread Safety
//
// Forward passes in inference mode may run concurrently on one network.
// Training mode updates batch normalization statistics and the dropout
// generator and must not be shared between goroutines.
package mobilenet
