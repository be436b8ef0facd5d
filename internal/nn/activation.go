package nn

import (
	"fmt"

	"github.com/born-ml/mobilenet/internal/tensor"
)

// ReLU6 applies the clipped rectifier f(x) = min(max(0, x), 6) element-wise.
//
// The backend must implement tensor.ReLU6Backend.
//
// Example:
//
//	act := nn.NewReLU6(backend)
//	output := act.Forward(input) // values clipped to [0, 6]
type ReLU6[B tensor.Backend] struct {
	backend B
}

// NewReLU6 creates a new ReLU6 activation module.
func NewReLU6[B tensor.Backend](backend B) *ReLU6[B] {
	return &ReLU6[B]{backend: backend}
}

// Forward applies ReLU6.
func (r *ReLU6[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	act, ok := any(r.backend).(tensor.ReLU6Backend)
	if !ok {
		panic(fmt.Sprintf("relu6: backend %s does not support ReLU6", r.backend.Name()))
	}
	return tensor.New[float32, B](act.ReLU6(input.Raw()), r.backend)
}

// Parameters returns an empty slice (ReLU6 has no trainable parameters).
func (r *ReLU6[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// String returns a string representation of the layer.
func (r *ReLU6[B]) String() string {
	return "ReLU6()"
}
