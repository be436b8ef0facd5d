package cpu

import (
	"github.com/born-ml/mobilenet/internal/tensor"
)

// applyBinary evaluates dst = f(a, b) element-wise. When broadcasting is
// not needed the operands are walked in lockstep.
func applyBinary[T float32 | float64](
	dst, a, b []T,
	aShape, bShape, outShape tensor.Shape,
	needsBroadcast bool,
	f func(x, y T) T,
) {
	if !needsBroadcast {
		for i := range dst {
			dst[i] = f(a[i], b[i])
		}
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	for i := range dst {
		dst[i] = f(a[computeFlatIndex(i, outStrides, aStrides)], b[computeFlatIndex(i, outStrides, bStrides)])
	}
}

// computeBroadcastStridesForShape computes strides for broadcasting inShape to outShape.
// Dimensions of size 1 and missing leading dimensions get stride 0.
func computeBroadcastStridesForShape(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	offset := outDim - len(inShape)
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// computeFlatIndex maps a flat output index to a flat source index.
// outStrides are the row-major strides of the output shape; inStrides are
// the source strides aligned to the output dimensions.
func computeFlatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
