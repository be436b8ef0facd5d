package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	require.NoError(t, err)

	assert.Equal(t, Shape{2, 3}, raw.Shape())
	assert.Equal(t, []int{3, 1}, raw.Strides())
	assert.Equal(t, Float32, raw.DType())
	assert.Equal(t, CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 24, raw.ByteSize())
	assert.Equal(t, make([]float32, 6), raw.AsFloat32())

	_, err = NewRaw(Shape{2, 0}, Float32, CPU)
	assert.Error(t, err)
}

func TestRawTensor_ShapeIsCopied(t *testing.T) {
	shape := Shape{4, 4}
	raw, err := NewRaw(shape, Float64, CPU)
	require.NoError(t, err)

	shape[0] = 1
	assert.Equal(t, Shape{4, 4}, raw.Shape())
}

func TestRawTensor_AsWrongType(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float64, CPU)
	require.NoError(t, err)

	assert.Len(t, raw.AsFloat64(), 2)
	assert.Panics(t, func() { raw.AsFloat32() })
}

// TestRawTensor_CloneIsDeep checks that clones never alias.
func TestRawTensor_CloneIsDeep(t *testing.T) {
	raw, err := NewRaw(Shape{3}, Float32, CPU)
	require.NoError(t, err)
	raw.AsFloat32()[0] = 1

	clone := raw.Clone()
	clone.AsFloat32()[0] = 2

	assert.Equal(t, float32(1), raw.AsFloat32()[0])
	assert.Equal(t, float32(2), clone.AsFloat32()[0])
}

func TestRawTensor_WithShapeShares(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	require.NoError(t, err)

	view, err := raw.WithShape(Shape{3, 2})
	require.NoError(t, err)
	view.AsFloat32()[5] = 7

	assert.Equal(t, float32(7), raw.AsFloat32()[5])
	assert.Equal(t, []int{2, 1}, view.Strides())

	_, err = raw.WithShape(Shape{4, 2})
	assert.Error(t, err)
}

func TestDevice_String(t *testing.T) {
	assert.Equal(t, "CPU", CPU.String())
	assert.Equal(t, "Unknown", Device(7).String())
}
