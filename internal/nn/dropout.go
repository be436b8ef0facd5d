package nn

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/mobilenet/internal/tensor"
)

// Dropout zeroes elements with probability p during training and scales
// the survivors by 1/(1-p). In inference mode it is the identity.
//
// The mask generator is seeded, so a freshly built Dropout with the same
// seed drops the same elements. A Dropout in training mode must not be
// used from several goroutines at once.
type Dropout[B tensor.Backend] struct {
	p        float64
	training bool
	mask     distuv.Bernoulli
}

// NewDropout creates a dropout layer with drop probability p in [0, 1).
func NewDropout[B tensor.Backend](p float64, seed uint64) *Dropout[B] {
	if !(p >= 0 && p < 1) {
		panic(fmt.Sprintf("dropout: probability %g outside [0, 1)", p))
	}
	return &Dropout[B]{
		p:    p,
		mask: distuv.Bernoulli{P: 1 - p, Src: rand.NewPCG(seed, ^seed)},
	}
}

// Forward applies dropout in training mode and returns input unchanged otherwise.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}

	out := input.Clone()
	scale := float32(1 / (1 - d.p))
	data := out.Data()
	for i := range data {
		data[i] *= float32(d.mask.Rand()) * scale
	}
	return out
}

// Parameters returns an empty slice.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// P returns the drop probability.
func (d *Dropout[B]) P() float64 {
	return d.p
}

// SetTraining enables or disables dropping.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Training reports whether dropping is enabled.
func (d *Dropout[B]) Training() bool {
	return d.training
}

// String returns a string representation of the layer.
func (d *Dropout[B]) String() string {
	return fmt.Sprintf("Dropout(p=%g)", d.p)
}
