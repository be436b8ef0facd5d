package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/mobilenet/internal/parallel"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// BatchNorm2D applies the per-channel affine normalization
//
//	y = (x - mean[c]) / sqrt(variance[c] + eps) * scale[c] + shift[c]
//
// to input [N, C, H, W]. All statistic and affine tensors have shape [C].
func (cpu *CPUBackend) BatchNorm2D(input, scale, shift, mean, variance *tensor.RawTensor, eps float64) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	channels := shape[1]
	for name, p := range map[string]*tensor.RawTensor{"scale": scale, "shift": shift, "mean": mean, "variance": variance} {
		if !p.Shape().Equal(tensor.Shape{channels}) {
			panic(fmt.Sprintf("batchnorm2d: %s shape %v, want [%d]", name, p.Shape(), channels))
		}
	}
	if input.DType() != tensor.Float32 {
		panic(fmt.Sprintf("batchnorm2d: unsupported dtype %s (float32 only)", input.DType()))
	}

	result, err := tensor.NewRaw(shape, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("batchnorm2d: %v", err))
	}

	// Fold the statistics into one multiply-add per element.
	mul := make([]float32, channels)
	add := make([]float32, channels)
	g, b, m, v := scale.AsFloat32(), shift.AsFloat32(), mean.AsFloat32(), variance.AsFloat32()
	for c := 0; c < channels; c++ {
		inv := float32(1 / math.Sqrt(float64(v[c])+eps))
		mul[c] = g[c] * inv
		add[c] = b[c] - m[c]*mul[c]
	}

	plane := shape[2] * shape[3]
	src := input.AsFloat32()
	dst := result.AsFloat32()

	parallel.ForBatch(shape[0], channels, func(n, c int) {
		off := (n*channels + c) * plane
		x := src[off : off+plane]
		y := dst[off : off+plane]
		for i := range x {
			y[i] = x[i]*mul[c] + add[c]
		}
	}, cpu.parallel)

	return result
}

// ChannelMoments returns the mean and biased variance of every channel of
// input [N, C, H, W], taken over the batch and spatial dimensions.
func (cpu *CPUBackend) ChannelMoments(input *tensor.RawTensor) (mean, variance *tensor.RawTensor) {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("channel moments: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	if input.DType() != tensor.Float32 {
		panic(fmt.Sprintf("channel moments: unsupported dtype %s (float32 only)", input.DType()))
	}

	n, channels, plane := shape[0], shape[1], shape[2]*shape[3]

	var err error
	if mean, err = tensor.NewRaw(tensor.Shape{channels}, tensor.Float32, cpu.device); err != nil {
		panic(fmt.Sprintf("channel moments: %v", err))
	}
	if variance, err = tensor.NewRaw(tensor.Shape{channels}, tensor.Float32, cpu.device); err != nil {
		panic(fmt.Sprintf("channel moments: %v", err))
	}

	src := input.AsFloat32()
	means := mean.AsFloat32()
	vars := variance.AsFloat32()
	count := float64(n * plane)

	parallel.For(channels, func(c int) {
		var sum float64
		for b := 0; b < n; b++ {
			for _, x := range src[(b*channels+c)*plane:][:plane] {
				sum += float64(x)
			}
		}
		mu := sum / count

		var sq float64
		for b := 0; b < n; b++ {
			for _, x := range src[(b*channels+c)*plane:][:plane] {
				d := float64(x) - mu
				sq += d * d
			}
		}

		means[c] = float32(mu)
		vars[c] = float32(sq / count)
	}, cpu.parallel)

	return mean, variance
}
