package nn

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/tensor"
)

// Batch normalization defaults.
const (
	DefaultBatchNormEps      = 1e-5
	DefaultBatchNormMomentum = 0.1
)

// BatchNorm2D normalizes each channel of an NCHW tensor and applies a
// learnable affine transform:
//
//	y = (x - mean) / sqrt(var + eps) * weight + bias
//
// In inference mode (the default) mean and var are the running statistics.
// In training mode they are the statistics of the current batch, and the
// running statistics are updated with an exponential moving average:
//
//	running = (1 - momentum) * running + momentum * batch
//
// using the unbiased batch variance for running_var.
type BatchNorm2D[B tensor.Backend] struct {
	numFeatures int
	eps         float64
	momentum    float64
	training    bool

	weight *Parameter[B] // scale [C]
	bias   *Parameter[B] // shift [C]

	runningMean *tensor.Tensor[float32, B]
	runningVar  *tensor.Tensor[float32, B]
	batches     int

	backend B
}

// NewBatchNorm2D creates a batch normalization layer over numFeatures
// channels with eps 1e-5 and momentum 0.1. The scale starts at 1, the
// shift at 0, running mean at 0 and running variance at 1.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, backend B) *BatchNorm2D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid number of features %d", numFeatures))
	}

	shape := tensor.Shape{numFeatures}
	return &BatchNorm2D[B]{
		numFeatures: numFeatures,
		eps:         DefaultBatchNormEps,
		momentum:    DefaultBatchNormMomentum,
		weight:      NewParameter("weight", tensor.Ones[float32](shape, backend)),
		bias:        NewParameter("bias", tensor.Zeros[float32](shape, backend)),
		runningMean: tensor.Zeros[float32](shape, backend),
		runningVar:  tensor.Ones[float32](shape, backend),
		backend:     backend,
	}
}

// Forward normalizes input [N, C, H, W].
func (bn *BatchNorm2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	if shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", shape[1], bn.numFeatures))
	}

	mean, variance := bn.runningMean.Raw(), bn.runningVar.Raw()
	if bn.training {
		mean, variance = bn.backend.ChannelMoments(input.Raw())
		bn.track(mean, variance, shape.NumElements()/bn.numFeatures)
	}

	out := bn.backend.BatchNorm2D(input.Raw(), bn.weight.Tensor().Raw(), bn.bias.Tensor().Raw(), mean, variance, bn.eps)
	return tensor.New[float32, B](out, bn.backend)
}

// track folds batch statistics over count values per channel into the
// running statistics.
func (bn *BatchNorm2D[B]) track(mean, variance *tensor.RawTensor, count int) {
	correction := float32(1)
	if count > 1 {
		correction = float32(count) / float32(count-1)
	}
	m := float32(bn.momentum)

	rm, rv := bn.runningMean.Data(), bn.runningVar.Data()
	bm, bv := mean.AsFloat32(), variance.AsFloat32()
	for c := range rm {
		rm[c] = (1-m)*rm[c] + m*bm[c]
		rv[c] = (1-m)*rv[c] + m*bv[c]*correction
	}
	bn.batches++
}

// Parameters returns the scale and shift.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.weight, bn.bias}
}

// Kind reports KindNorm.
func (bn *BatchNorm2D[B]) Kind() Kind {
	return KindNorm
}

// Weight returns the scale parameter.
func (bn *BatchNorm2D[B]) Weight() *Parameter[B] {
	return bn.weight
}

// Bias returns the shift parameter.
func (bn *BatchNorm2D[B]) Bias() *Parameter[B] {
	return bn.bias
}

// RunningMean returns the running mean buffer.
func (bn *BatchNorm2D[B]) RunningMean() *tensor.Tensor[float32, B] {
	return bn.runningMean
}

// RunningVar returns the running variance buffer.
func (bn *BatchNorm2D[B]) RunningVar() *tensor.Tensor[float32, B] {
	return bn.runningVar
}

// BatchesTracked returns how many training batches updated the running statistics.
func (bn *BatchNorm2D[B]) BatchesTracked() int {
	return bn.batches
}

// NumFeatures returns the channel count.
func (bn *BatchNorm2D[B]) NumFeatures() int {
	return bn.numFeatures
}

// SetTraining switches between batch and running statistics.
func (bn *BatchNorm2D[B]) SetTraining(training bool) {
	bn.training = training
}

// Training reports whether batch statistics are in use.
func (bn *BatchNorm2D[B]) Training() bool {
	return bn.training
}

// String returns a string representation of the layer.
func (bn *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2D(%d, eps=%g, momentum=%g)", bn.numFeatures, bn.eps, bn.momentum)
}
