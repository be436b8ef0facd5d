// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package mobilenet

import (
	"github.com/born-ml/mobilenet/internal/mobilenet"
	"github.com/born-ml/mobilenet/internal/nn"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// Network is the assembled inverted-residual classifier.
type Network[B tensor.Backend] = mobilenet.Network[B]

// Config holds the construction hyperparameters.
type Config = mobilenet.Config

// StageSpec describes one stage of the architecture table.
type StageSpec = mobilenet.StageSpec

// BlockConfig holds the resolved hyperparameters of one block.
type BlockConfig = mobilenet.BlockConfig

// Plan is the resolved architecture without tensors.
type Plan = mobilenet.Plan

// StagePlan is one resolved stage.
type StagePlan = mobilenet.StagePlan

// ConvNormAct is convolution, batch normalization and ReLU6.
type ConvNormAct[B tensor.Backend] = mobilenet.ConvNormAct[B]

// InvertedResidual is one expand / depthwise / project block.
type InvertedResidual[B tensor.Backend] = mobilenet.InvertedResidual[B]

// ConfigError describes a rejected configuration field.
type ConfigError = mobilenet.ConfigError

// InitPolicy maps unit kinds to initialization rules.
type InitPolicy = mobilenet.InitPolicy

// InitRule is the initialization of one unit kind.
type InitRule = mobilenet.InitRule

// FillMethod selects how weights are filled.
type FillMethod = mobilenet.FillMethod

// Weight fill methods.
const (
	FillKaimingFanOut = mobilenet.FillKaimingFanOut
	FillNormal        = mobilenet.FillNormal
	FillConstant      = mobilenet.FillConstant
)

// DefaultDivisor is the default channel rounding granularity.
const DefaultDivisor = mobilenet.DefaultDivisor

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = mobilenet.ErrInvalidConfig

// Build creates a ready network from a class count, width multiplier and
// rounding granularity.
//
// Example:
//
//	backend := cpu.New()
//	net, err := mobilenet.Build(1000, 1.0, 8, backend)
//	logits := net.Forward(images) // [N, 1000]
func Build[B tensor.Backend](numClasses int, widthMultiplier float64, roundTo int, backend B) (*Network[B], error) {
	return mobilenet.Build(numClasses, widthMultiplier, roundTo, backend)
}

// New creates a ready network from a full config.
func New[B tensor.Backend](cfg Config, backend B) (*Network[B], error) {
	return mobilenet.New(cfg, backend)
}

// DefaultConfig returns the 1000-class, width 1.0 configuration.
func DefaultConfig() Config {
	return mobilenet.DefaultConfig()
}

// DefaultStages returns the standard seven-stage table.
func DefaultStages() []StageSpec {
	return mobilenet.DefaultStages()
}

// DefaultInitPolicy returns a fresh copy of the initialization applied by New.
func DefaultInitPolicy() InitPolicy {
	return mobilenet.DefaultInitPolicy()
}

// LoadConfig reads a JSON config file over the defaults.
func LoadConfig(path string) (Config, error) {
	return mobilenet.LoadConfig(path)
}

// RoundChannels rounds a width-scaled channel count to a multiple of divisor.
func RoundChannels(raw float64, divisor, minChannels int) int {
	return mobilenet.RoundChannels(raw, divisor, minChannels)
}

// MakeDivisible is RoundChannels with the default floor.
func MakeDivisible(raw float64, divisor int) int {
	return mobilenet.MakeDivisible(raw, divisor)
}

// NewConvNormAct creates a conv-norm-ReLU6 unit.
func NewConvNormAct[B tensor.Backend](in, out, kernel, stride, groups int, backend B) *ConvNormAct[B] {
	return mobilenet.NewConvNormAct(in, out, kernel, stride, groups, backend)
}

// NewInvertedResidual creates one inverted residual block.
func NewInvertedResidual[B tensor.Backend](cfg BlockConfig, backend B) *InvertedResidual[B] {
	return mobilenet.NewInvertedResidual(cfg, backend)
}

// Initialize applies policy to units once, drawing from a generator seeded with seed.
func Initialize[B tensor.Backend](units []nn.Initializable[B], policy InitPolicy, seed uint64) error {
	return mobilenet.Initialize(units, policy, seed)
}
