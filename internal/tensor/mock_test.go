package tensor

import "fmt"

// Verify that mockBackend implements Backend.
var _ Backend = (*mockBackend)(nil)

// mockBackend implements the primitives naively in float64 for
// correctness checks of the tensor layer.
type mockBackend struct{}

func (m *mockBackend) Name() string {
	return "mock"
}

func (m *mockBackend) Device() Device {
	return CPU
}

func (m *mockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

func (m *mockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

func (m *mockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}
	result := m.alloc(outShape, a.DType())

	aData, bData := toFloat64(a), toFloat64(b)
	out := make([]float64, outShape.NumElements())
	for i := range out {
		out[i] = op(aData[broadcastIndex(i, outShape, a.Shape())], bData[broadcastIndex(i, outShape, b.Shape())])
	}
	fromFloat64(out, result)
	return result
}

func (m *mockBackend) MatMul(a, b *RawTensor) *RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 || aShape[1] != bShape[0] {
		panic(fmt.Sprintf("mock matmul: incompatible shapes %v @ %v", aShape, bShape))
	}
	M, K, N := aShape[0], aShape[1], bShape[1]
	result := m.alloc(Shape{M, N}, a.DType())

	aData, bData := toFloat64(a), toFloat64(b)
	out := make([]float64, M*N)
	for i := 0; i < M; i++ {
		for j := 0; j < N; j++ {
			for k := 0; k < K; k++ {
				out[i*N+j] += aData[i*K+k] * bData[k*N+j]
			}
		}
	}
	fromFloat64(out, result)
	return result
}

func (m *mockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	view, err := t.Clone().WithShape(newShape)
	if err != nil {
		panic(err)
	}
	return view
}

// Transpose supports 2D tensors only.
func (m *mockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor {
	shape := t.Shape()
	if len(shape) != 2 || (len(axes) != 0 && (len(axes) != 2 || axes[0] != 1 || axes[1] != 0)) {
		panic("mock transpose: only 2D swaps are supported")
	}
	rows, cols := shape[0], shape[1]
	result := m.alloc(Shape{cols, rows}, t.DType())

	src := toFloat64(t)
	out := make([]float64, len(src))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = src[i*cols+j]
		}
	}
	fromFloat64(out, result)
	return result
}

func (m *mockBackend) Conv2D(_, _ *RawTensor, _, _, _ int) *RawTensor {
	panic("mock: Conv2D not implemented")
}

func (m *mockBackend) BatchNorm2D(_, _, _, _, _ *RawTensor, _ float64) *RawTensor {
	panic("mock: BatchNorm2D not implemented")
}

func (m *mockBackend) ChannelMoments(_ *RawTensor) (mean, variance *RawTensor) {
	panic("mock: ChannelMoments not implemented")
}

func (m *mockBackend) AdaptiveAvgPool2D(_ *RawTensor, _, _ int) *RawTensor {
	panic("mock: AdaptiveAvgPool2D not implemented")
}

func (m *mockBackend) alloc(shape Shape, dtype DataType) *RawTensor {
	r, err := NewRaw(shape, dtype, CPU)
	if err != nil {
		panic(err)
	}
	return r
}

// broadcastIndex maps a flat index of outShape to the flat index of the
// broadcast source shape.
func broadcastIndex(flat int, outShape, srcShape Shape) int {
	srcStrides := srcShape.ComputeStrides()
	offset := len(outShape) - len(srcShape)
	idx := 0
	for d := len(outShape) - 1; d >= 0; d-- {
		coord := flat % outShape[d]
		flat /= outShape[d]
		if sd := d - offset; sd >= 0 && srcShape[sd] != 1 {
			idx += coord * srcStrides[sd]
		}
	}
	return idx
}

func toFloat64(r *RawTensor) []float64 {
	switch r.DType() {
	case Float32:
		src := r.AsFloat32()
		out := make([]float64, len(src))
		for i, v := range src {
			out[i] = float64(v)
		}
		return out
	case Float64:
		return append([]float64(nil), r.AsFloat64()...)
	default:
		panic("unsupported dtype")
	}
}

func fromFloat64(data []float64, r *RawTensor) {
	switch r.DType() {
	case Float32:
		dst := r.AsFloat32()
		for i, v := range data {
			dst[i] = float32(v)
		}
	case Float64:
		copy(r.AsFloat64(), data)
	}
}
