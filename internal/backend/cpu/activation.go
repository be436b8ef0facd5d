package cpu

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/tensor"
)

// ReLU6 computes min(max(x, 0), 6) element-wise.
func (cpu *CPUBackend) ReLU6(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("relu6: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		clamp(result.AsFloat32(), x.AsFloat32(), 0, 6)
	case tensor.Float64:
		clamp(result.AsFloat64(), x.AsFloat64(), 0, 6)
	default:
		panic(fmt.Sprintf("relu6: unsupported dtype %s", x.DType()))
	}

	return result
}

func clamp[T float32 | float64](dst, src []T, lo, hi T) {
	for i, v := range src {
		dst[i] = min(max(v, lo), hi)
	}
}
