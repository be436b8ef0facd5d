package mobilenet

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/mobilenet/internal/nn"
	"github.com/born-ml/mobilenet/internal/tensor"
)

// FillMethod selects how a weight tensor is filled.
type FillMethod int

// Weight fill methods.
const (
	FillKaimingFanOut FillMethod = iota // N(0, 2/fan_out)
	FillNormal                          // N(0, Std^2)
	FillConstant                        // Value
)

// InitRule is the initialization of one unit kind. Biases, when present,
// are set to Bias.
type InitRule struct {
	Weight FillMethod
	Std    float64
	Value  float32
	Bias   float32
}

// InitPolicy maps unit kinds to their initialization rule.
type InitPolicy map[nn.Kind]InitRule

// DefaultInitPolicy returns Kaiming fan-out for convolutions, identity
// affine for normalization and N(0, 0.01) for the classifier. All biases
// start at 0. Each call returns a new map.
func DefaultInitPolicy() InitPolicy {
	return InitPolicy{
		nn.KindConv:   {Weight: FillKaimingFanOut},
		nn.KindNorm:   {Weight: FillConstant, Value: 1},
		nn.KindLinear: {Weight: FillNormal, Std: 0.01},
	}
}

// Initialize fills the weight and bias of every unit once, in order, from
// a single generator seeded with seed. Units of a kind missing from
// policy are an error and leave later units untouched.
func Initialize[B tensor.Backend](units []nn.Initializable[B], policy InitPolicy, seed uint64) error {
	src := rand.NewPCG(seed, initStream)
	for i, u := range units {
		rule, ok := policy[u.Kind()]
		if !ok {
			return fmt.Errorf("initialize: no rule for %s unit %d", u.Kind(), i)
		}

		switch rule.Weight {
		case FillKaimingFanOut:
			nn.KaimingNormal(u.Weight(), nn.FanOut, src)
		case FillNormal:
			nn.NormalFill(u.Weight(), 0, rule.Std, src)
		case FillConstant:
			nn.ConstantFill(u.Weight(), rule.Value)
		default:
			return fmt.Errorf("initialize: unknown fill method %d", rule.Weight)
		}

		if bias := u.Bias(); bias != nil {
			nn.ConstantFill(bias, rule.Bias)
		}
	}
	return nil
}

const initStream = 0x6d6f62696c656e65
