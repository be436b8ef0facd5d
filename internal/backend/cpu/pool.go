package cpu

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/parallel"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// AdaptiveAvgPool2D averages input [N, C, H, W] into [N, C, outH, outW].
//
// Output cell (i, j) covers input rows [floor(i*H/outH), ceil((i+1)*H/outH))
// and the analogous columns, so bins may overlap when H is not a multiple
// of outH. outH = outW = 1 is global average pooling.
func (cpu *CPUBackend) AdaptiveAvgPool2D(input *tensor.RawTensor, outH, outW int) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: invalid output size %dx%d", outH, outW))
	}
	if input.DType() != tensor.Float32 {
		panic(fmt.Sprintf("adaptive_avg_pool2d: unsupported dtype %s (float32 only)", input.DType()))
	}

	n, channels, h, w := shape[0], shape[1], shape[2], shape[3]
	result, err := tensor.NewRaw(tensor.Shape{n, channels, outH, outW}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("adaptive_avg_pool2d: %v", err))
	}

	src := input.AsFloat32()
	dst := result.AsFloat32()

	parallel.ForBatch(n, channels, func(b, c int) {
		plane := src[(b*channels+c)*h*w:][:h*w]
		out := dst[(b*channels+c)*outH*outW:][:outH*outW]

		for i := 0; i < outH; i++ {
			h0, h1 := i*h/outH, ((i+1)*h+outH-1)/outH
			for j := 0; j < outW; j++ {
				w0, w1 := j*w/outW, ((j+1)*w+outW-1)/outW
				var sum float64
				for y := h0; y < h1; y++ {
					for x := w0; x < w1; x++ {
						sum += float64(plane[y*w+x])
					}
				}
				out[i*outW+j] = float32(sum / float64((h1-h0)*(w1-w0)))
			}
		}
	}, cpu.parallel)

	return result
}
