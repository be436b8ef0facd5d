package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/mobilenet/internal/backend/cpu"
)

type testBackend = *cpu.CPUBackend

func buildTree(backend testBackend) *Sequential[testBackend] {
	return NewSequential[testBackend](
		NewSequential[testBackend](
			NewConv2D(3, 4, 3, 1, 1, 1, false, backend),
			NewBatchNorm2D(4, backend),
			NewReLU6(backend),
		),
		NewDropout[testBackend](0.2, 0),
		NewLinear(4, 2, backend),
	)
}

func TestWalk_PreOrderPaths(t *testing.T) {
	var paths []string
	Walk[testBackend](buildTree(cpu.New()), func(path string, _ Module[testBackend]) {
		paths = append(paths, path)
	})

	assert.Equal(t, []string{"", "0", "0.0", "0.1", "0.2", "1", "2"}, paths)
}

func TestNamedParameters(t *testing.T) {
	tree := buildTree(cpu.New())

	named := NamedParameters[testBackend](tree)

	var names []string
	for _, np := range named {
		names = append(names, np.Name)
	}
	assert.Equal(t, []string{"0.0.weight", "0.1.weight", "0.1.bias", "2.weight", "2.bias"}, names)

	params := tree.Parameters()
	assert.Len(t, params, len(named))
	for i := range params {
		assert.Same(t, params[i], named[i].Parameter)
	}
}

func TestInitializables(t *testing.T) {
	units := Initializables[testBackend](buildTree(cpu.New()))

	kinds := make([]Kind, len(units))
	for i, u := range units {
		kinds[i] = u.Kind()
	}
	assert.Equal(t, []Kind{KindConv, KindNorm, KindLinear}, kinds)
}

func TestSetTraining(t *testing.T) {
	tree := buildTree(cpu.New())

	SetTraining[testBackend](tree, true)

	bn := tree.Module(0).(*Sequential[testBackend]).Module(1).(*BatchNorm2D[testBackend])
	drop := tree.Module(1).(*Dropout[testBackend])
	assert.True(t, bn.Training())
	assert.True(t, drop.Training())

	SetTraining[testBackend](tree, false)
	assert.False(t, bn.Training())
	assert.False(t, drop.Training())
}

func TestCountParameters(t *testing.T) {
	// conv 4*3*3*3=108, bn 4+4, linear 4*2+2
	assert.Equal(t, 108+8+10, CountParameters[testBackend](buildTree(cpu.New())))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "conv", KindConv.String())
	assert.Equal(t, "norm", KindNorm.String())
	assert.Equal(t, "linear", KindLinear.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
