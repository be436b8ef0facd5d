package nn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/mobilenet/internal/tensor"
)

// FanMode selects which fan Kaiming initialization scales by.
type FanMode int

// Fan modes.
const (
	FanIn FanMode = iota
	FanOut
)

// Fans computes fan-in and fan-out of a weight shape.
//
// For a conv weight [out, in/groups, kh, kw]:
//
//	fan_in  = shape[1] * kh * kw
//	fan_out = shape[0] * kh * kw
//
// For a linear weight [out, in] the receptive field is 1.
func Fans(shape tensor.Shape) (fanIn, fanOut int) {
	if len(shape) < 2 {
		panic(fmt.Sprintf("init: fan needs at least 2 dimensions, got %v", shape))
	}
	receptive := 1
	for _, d := range shape[2:] {
		receptive *= d
	}
	return shape[1] * receptive, shape[0] * receptive
}

// KaimingNormal fills p from N(0, 2/fan) where fan is chosen by mode
// (ReLU gain sqrt(2)).
func KaimingNormal[B tensor.Backend](p *Parameter[B], mode FanMode, src rand.Source) {
	fanIn, fanOut := Fans(p.Shape())
	fan := fanIn
	if mode == FanOut {
		fan = fanOut
	}
	NormalFill(p, 0, math.Sqrt(2/float64(fan)), src)
}

// NormalFill fills p from N(mean, std^2).
func NormalFill[B tensor.Backend](p *Parameter[B], mean, std float64, src rand.Source) {
	dist := distuv.Normal{Mu: mean, Sigma: std, Src: src}
	data := p.Tensor().Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}

// ConstantFill sets every element of p to value.
func ConstantFill[B tensor.Backend](p *Parameter[B], value float32) {
	data := p.Tensor().Data()
	for i := range data {
		data[i] = value
	}
}
